package main

import (
	"fmt"

	"vocab-quiz/internal/config"
	"vocab-quiz/internal/service"

	"github.com/spf13/cobra"
)

var difficultyCmd = &cobra.Command{
	Use:   "difficulty",
	Short: "Inspect or reset the difficulty model",
}

var difficultyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the persisted difficulty model and its window",
	Args:  cobra.NoArgs,
	RunE:  runDifficultyShow,
}

var difficultyResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restart the model at the middle of the vocabulary",
	Args:  cobra.NoArgs,
	RunE:  runDifficultyReset,
}

// resetVariance is a flag for the reset command; zero uses the configured
// initial variance.
var resetVariance float64

func init() {
	difficultyResetCmd.Flags().Float64Var(&resetVariance, "variance", 0, "Window half-width after the reset")

	difficultyCmd.AddCommand(difficultyShowCmd)
	difficultyCmd.AddCommand(difficultyResetCmd)
	rootCmd.AddCommand(difficultyCmd)
}

func runDifficultyShow(cmd *cobra.Command, _ []string) error {
	return withVocabularyService(cmd, func(_ *config.Config, svc *service.VocabularyService) error {
		ctx := cmd.Context()
		model, found, err := svc.Difficulty(ctx)
		if err != nil {
			return fmt.Errorf("failed to load difficulty: %w", err)
		}
		if !found {
			cmd.Println("No difficulty model saved yet")
			return nil
		}
		words, err := svc.List(ctx)
		if err != nil {
			return err
		}
		lower, upper := model.Window(len(words))
		cmd.Printf("Mean:     %.1f\n", model.Mean)
		cmd.Printf("Variance: %.1f\n", model.Variance)
		cmd.Printf("Window:   [%d, %d) of %d words\n", lower, upper, len(words))
		return nil
	})
}

func runDifficultyReset(cmd *cobra.Command, _ []string) error {
	return withVocabularyService(cmd, func(cfg *config.Config, svc *service.VocabularyService) error {
		variance := resetVariance
		if variance <= 0 {
			variance = cfg.Difficulty.InitialVariance
		}
		model, err := svc.ResetDifficulty(cmd.Context(), variance)
		if err != nil {
			return fmt.Errorf("failed to reset difficulty: %w", err)
		}
		cmd.Printf("Difficulty reset: mean=%.1f variance=%.1f\n", model.Mean, model.Variance)
		return nil
	})
}
