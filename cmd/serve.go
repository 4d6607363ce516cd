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
	"os"

	"github.com/ademuri/spotify-history/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the analyses over HTTP",
	Long: `Starts a JSON API over the database under /api/v1, with /health and
Prometheus metrics on /metrics.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(viper.GetString("addr")); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	var addr string
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
}

func serve(addr string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	gin.SetMode(ginMode(log.GetLevel()))
	log.Infof("Listening on %s", addr)
	return server.New(db, log).Start(addr)
}

// ginMode keeps gin's route dump and request logs for debug logging only.
func ginMode(level logrus.Level) string {
	if level >= logrus.DebugLevel {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}
