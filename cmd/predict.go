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
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ademuri/spotify-history/internal/contexts"
	"github.com/spf13/cobra"
)

var predictRules bool
var predictShowTree bool
var predictMaxDepth int

var predictCmd = &cobra.Command{
	Use:   "predict <feature=value...>",
	Short: "Predicts the listening context for a set of features",
	Long: `Trains a decision tree on the labelled history and predicts a context for the
given features, e.g. 'predict hour=7 weekday=1 energy=0.8 tempo=130'.
Features: hour, weekday (0 is Monday), energy, tempo, danceability, valence.
With --rules the fixed classification rules are used instead of a trained model.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := printPrediction(os.Stdout, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().BoolVar(&predictRules, "rules", false, "use the classification rules instead of training")
	predictCmd.Flags().BoolVar(&predictShowTree, "show-tree", false, "print the trained decision tree")
	predictCmd.Flags().IntVar(&predictMaxDepth, "max-depth", contexts.DefaultMaxDepth, "maximum depth of the decision tree")
}

func parseFeatures(args []string) (map[string]float64, error) {
	features := make(map[string]float64, len(args))
	for _, arg := range args {
		kv := strings.SplitN(arg, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, fmt.Errorf("Expected feature=value, got %q", arg)
		}
		v, err := strconv.ParseFloat(kv[1], 64)
		if err != nil {
			return nil, fmt.Errorf("Parsing %s: %w", kv[0], err)
		}
		features[kv[0]] = v
	}
	return features, nil
}

func printPrediction(out io.Writer, args []string) error {
	features, err := parseFeatures(args)
	if err != nil {
		return err
	}

	if predictRules {
		label, err := contexts.RuleClassifier{}.Predict(features)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, label)
		return nil
	}

	a, err := loadAnalyzer(nil)
	if err != nil {
		return err
	}
	a.SetTrainer(contexts.TreeTrainer{MaxDepth: predictMaxDepth})

	model, err := a.TrainContextPredictor()
	if err != nil {
		return err
	}
	label, err := model.Predict(features)
	if err != nil {
		return fmt.Errorf("predicting context: %w", err)
	}
	if tree, ok := model.(*contexts.Model); ok && predictShowTree {
		fmt.Fprintln(out, tree)
	}
	fmt.Fprintln(out, label)
	return nil
}
