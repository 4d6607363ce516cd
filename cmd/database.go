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
	"fmt"

	"github.com/ademuri/spotify-history/internal/analysis"
	"github.com/ademuri/spotify-history/internal/store"
	"github.com/spf13/viper"
)

func openStore() (*store.Store, error) {
	db, err := store.New(viper.GetString("database"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// loadAnalyzer reads the plays in the date range given by args, along with
// whatever enrichment has been imported.
func loadAnalyzer(args []string) (*analysis.Analyzer, error) {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return nil, err
	}

	db, err := openStore()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return analysis.Load(db, start, end, log)
}
