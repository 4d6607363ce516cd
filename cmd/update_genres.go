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
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/ademuri/spotify-history/internal/enrich"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type UpdateGenresConfig struct {
	ApiKey            string
	Secret            string
	TagUpdateInterval time.Duration
	MinPlays          int
}

var updateGenresCmd = &cobra.Command{
	Use:   "update-genres",
	Short: "Fetches artist genres from last.fm",
	Long: `Looks up the top tags of every artist in the database on last.fm and stores
them. Artists fetched within --tag-update-interval are skipped.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		var missing []string
		if viper.GetString("api_key") == "" {
			missing = append(missing, "api_key")
		}
		if viper.GetString("secret") == "" {
			missing = append(missing, "secret")
		}
		if len(missing) > 0 {
			return fmt.Errorf("required flag(s) \"%s\" not set", strings.Join(missing, "\", \""))
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		intervalStr := viper.GetString("tag-update-interval")
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			log.Warnf("Invalid tag-update-interval: %v. Using default 1 year.", err)
			interval = enrich.DefaultTagInterval
		}

		config := UpdateGenresConfig{
			ApiKey:            viper.GetString("api_key"),
			Secret:            viper.GetString("secret"),
			TagUpdateInterval: interval,
			MinPlays:          viper.GetInt("min-plays"),
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := updateGenres(ctx, config); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(updateGenresCmd)

	var tagUpdateInterval string
	updateGenresCmd.Flags().StringVar(&tagUpdateInterval, "tag-update-interval", "8760h", "Time duration after which to re-fetch tags (e.g., 24h)")
	viper.BindPFlag("tag-update-interval", updateGenresCmd.Flags().Lookup("tag-update-interval"))

	var minPlays int
	updateGenresCmd.Flags().IntVar(&minPlays, "min-plays", 0, "Skip artists with this many plays or fewer")
	viper.BindPFlag("min-plays", updateGenresCmd.Flags().Lookup("min-plays"))
}

func updateGenres(ctx context.Context, config UpdateGenresConfig) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	updater := &enrich.TagUpdater{
		Store:    db,
		Fetcher:  enrich.NewLastfmFetcher(config.ApiKey, config.Secret, log),
		Interval: config.TagUpdateInterval,
		MinPlays: config.MinPlays,
		Log:      log,
	}
	updated, err := updater.Run(ctx)
	if err != nil {
		return fmt.Errorf("updating genres: %w", err)
	}
	log.Infof("Updated genres for %d artists", updated)
	return nil
}
