package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/depintrust/depintrust/internal/config"
	"github.com/depintrust/depintrust/internal/scoring"
)

var (
	scoreEnhanced    bool
	scoreWeightsFile string
)

var scoreCmd = &cobra.Command{
	Use:   "score <scan.json>",
	Short: "Score a single scan-result JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreEnhanced, "enhanced", false, "Run the heuristic analysis stage")
	scoreCmd.Flags().StringVar(&scoreWeightsFile, "weights", "", "YAML file of penalty weight overrides")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read scan file: %w", err)
	}

	var opts []scoring.Option
	if scoreWeightsFile != "" {
		weights, err := config.LoadWeights(scoreWeightsFile)
		if err != nil {
			return fmt.Errorf("load weights: %w", err)
		}
		opts = append(opts, scoring.WithWeights(weights))
	}

	mode := scoring.ModeBase
	if scoreEnhanced {
		mode = scoring.ModeEnhanced
	}

	result, err := scoring.NewPipeline(opts...).ScoreJSON(data, mode)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	fmt.Println(string(out))
	return nil
}
