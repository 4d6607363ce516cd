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
	"testing"

	"github.com/spf13/viper"
)

func TestUpdateGenresRequiresApiKey(t *testing.T) {
	viper.Reset()

	err := updateGenresCmd.PreRunE(updateGenresCmd, []string{})
	if err == nil {
		t.Fatal("Expected error when api_key and secret are missing, got nil")
	}
	if err.Error() != `required flag(s) "api_key", "secret" not set` {
		t.Errorf("Unexpected error: %v", err)
	}

	viper.Set("api_key", "test-api-key")
	err = updateGenresCmd.PreRunE(updateGenresCmd, []string{})
	if err == nil || err.Error() != `required flag(s) "secret" not set` {
		t.Errorf("Expected missing secret error, got %v", err)
	}

	viper.Set("secret", "test-secret")
	if err := updateGenresCmd.PreRunE(updateGenresCmd, []string{}); err != nil {
		t.Errorf("Expected nil when api_key and secret are set, got %v", err)
	}
}

func TestEmailRequiresFrom(t *testing.T) {
	viper.Reset()
	viper.Set("from", "")

	err := emailCmd.PreRunE(emailCmd, []string{"test@example.com", "stats"})
	if err == nil {
		t.Error("Expected error when from is missing, got nil")
	} else if err.Error() != "required flag(s) \"from\" not set" {
		t.Errorf("Expected 'required flag(s) \"from\" not set', got %v", err)
	}

	viper.Set("from", "reports@example.com")
	if err := emailCmd.PreRunE(emailCmd, []string{"test@example.com", "stats"}); err != nil {
		t.Errorf("Expected nil when from is set, got %v", err)
	}
}
