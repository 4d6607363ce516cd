/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"strings"
	"testing"
	"time"
)

func TestGetImplicitDateRange_year(t *testing.T) {
	doTestGetImplicitDateRange(t, "2020", "2021", "2006")
}

func TestGetImplicitDateRange_month(t *testing.T) {
	doTestGetImplicitDateRange(t, "2020-01", "2020-02", "2006-01")
}

func TestGetImplicitDateRange_day(t *testing.T) {
	doTestGetImplicitDateRange(t, "2020-01-01", "2020-01-02", "2006-01-02")
}

func TestGetImplicitDateRange_invalid(t *testing.T) {
	tooMany := "2020-01-0123"
	_, _, err := getImplicitDateRange(tooMany)
	if err == nil {
		t.Fatalf("Expected error parsing %q", tooMany)
	}
	if !strings.Contains(err.Error(), "Invalid format") {
		t.Fatalf("Should have error with invalid format: %v", err)
	}

	letters := "not_real"
	_, _, err = getImplicitDateRange(letters)
	if err == nil {
		t.Fatalf("Expected error parsing %q", letters)
	}
	if !strings.Contains(err.Error(), "Invalid format") {
		t.Fatalf("Should have error with invalid format: %v", err)
	}
}

func doTestGetImplicitDateRange(t *testing.T, startString string, endString string, format string) {
	start, end, err := getImplicitDateRange(startString)
	if err != nil {
		t.Fatalf("Parsing date string: %v", err)
	}

	expectedStart, err := time.Parse(format, startString)
	if err != nil {
		t.Fatalf("Constructing expectedStart: %v", err)
	}

	expectedEnd, err := time.Parse(format, endString)
	if err != nil {
		t.Fatalf("Constructing expectedEnd: %v", err)
	}

	if start != expectedStart {
		t.Fatalf("Expected start to be %q, got %q", expectedStart, start)
	}

	if end != expectedEnd {
		t.Fatalf("Expected end to be %q, got %q", expectedEnd, end)
	}
}

func TestGetExplicitDateRange_valid(t *testing.T) {
	const startString = "2020"
	const endString = "2020-02-01"
	expectedStart, err := time.Parse("2006", startString)
	if err != nil {
		t.Fatalf("Constructing expectedStart: %v", err)
	}

	expectedEnd, err := time.Parse("2006-01-02", endString)
	if err != nil {
		t.Fatalf("Constructing expectedEnd: %v", err)
	}

	start, end, err := getExplicitDateRange(startString, endString)
	if err != nil {
		t.Fatalf("getExplicitDateRange(%q, %q): %v", startString, endString, err)
	}

	if start != expectedStart {
		t.Fatalf("Expected start to be %q, got %q", expectedStart, start)
	}

	if end != expectedEnd {
		t.Fatalf("Expected end to be %q, got %q", expectedEnd, end)
	}
}

func TestGetExplicitDateRange_invalid(t *testing.T) {
	_, _, err := getExplicitDateRange("2020", "abc")
	if err == nil {
		t.Fatalf("Expected error when parsing invalid datestring")
	}

	_, _, err = getExplicitDateRange("2021", "2020")
	if err == nil {
		t.Fatalf("Expected error when end is before start")
	}
}

func TestParseSingleDatestring_Relative(t *testing.T) {
	fixed := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)
	clock = func() time.Time { return fixed }
	defer func() { clock = time.Now }()

	tests := []struct {
		input    string
		expected time.Time
	}{
		{"30d", fixed.AddDate(0, 0, -30)},
		{"12w", fixed.AddDate(0, 0, -84)},
		{"6m", fixed.AddDate(0, -6, 0)},
		{"10y", fixed.AddDate(-10, 0, 0)},
	}

	for _, tc := range tests {
		pd, err := parseSingleDatestring(tc.input)
		if err != nil {
			t.Errorf("parseSingleDatestring(%q) returned error: %v", tc.input, err)
			continue
		}
		if !pd.Relative {
			t.Errorf("parseSingleDatestring(%q) not marked relative", tc.input)
		}
		if !pd.Date.Equal(tc.expected) {
			t.Errorf("parseSingleDatestring(%q) = %v; want %v", tc.input, pd.Date, tc.expected)
		}
	}

	start, end, err := getImplicitDateRange("30d")
	if err != nil {
		t.Fatalf("getImplicitDateRange(30d): %v", err)
	}
	if !start.Equal(fixed.AddDate(0, 0, -30)) || !end.Equal(fixed) {
		t.Errorf("getImplicitDateRange(30d) = %v, %v", start, end)
	}
}

func TestParseDateRangeFromArgs_none(t *testing.T) {
	start, end, err := parseDateRangeFromArgs(nil)
	if err != nil {
		t.Fatalf("parseDateRangeFromArgs(nil): %v", err)
	}
	if !start.IsZero() || !end.IsZero() {
		t.Errorf("Expected unbounded range, got %v to %v", start, end)
	}

	if _, _, err := parseDateRangeFromArgs([]string{"2020", "2021", "2022"}); err == nil {
		t.Errorf("Expected error for three date arguments")
	}
}
