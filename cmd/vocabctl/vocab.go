package main

import (
	"fmt"
	"io"
	"os"

	"vocab-quiz/internal/config"
	"vocab-quiz/internal/service"

	"github.com/spf13/cobra"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Manage the vocabulary",
	Long:  `List known words or add new ones. Words keep the order they were learned in.`,
}

var vocabListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known words in rank order",
	Args:  cobra.NoArgs,
	RunE:  runVocabList,
}

var vocabAddCmd = &cobra.Command{
	Use:   "add [word...]",
	Short: "Append words that are not yet known",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVocabAdd,
}

var vocabImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Append every new word of a file",
	Long:  `Reads one word per line from file, or from stdin when file is "-". Known words and blank lines are skipped.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runVocabImport,
}

func init() {
	vocabCmd.AddCommand(vocabListCmd)
	vocabCmd.AddCommand(vocabAddCmd)
	vocabCmd.AddCommand(vocabImportCmd)
	rootCmd.AddCommand(vocabCmd)
}

func runVocabList(cmd *cobra.Command, _ []string) error {
	return withVocabularyService(cmd, func(_ *config.Config, svc *service.VocabularyService) error {
		words, err := svc.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list vocabulary: %w", err)
		}
		if len(words) == 0 {
			cmd.Println("No words known yet")
			return nil
		}
		for i, w := range words {
			cmd.Printf("%5d  %s\n", i, w)
		}
		cmd.Printf("\nTotal: %d words\n", len(words))
		return nil
	})
}

func runVocabAdd(cmd *cobra.Command, args []string) error {
	return withVocabularyService(cmd, func(_ *config.Config, svc *service.VocabularyService) error {
		for _, word := range args {
			added, err := svc.Add(cmd.Context(), word)
			if err != nil {
				return fmt.Errorf("failed to add %q: %w", word, err)
			}
			if added {
				cmd.Printf("Added: %s\n", word)
			} else {
				cmd.Printf("Already known: %s\n", word)
			}
		}
		return nil
	})
}

func runVocabImport(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	return withVocabularyService(cmd, func(_ *config.Config, svc *service.VocabularyService) error {
		res, err := svc.Import(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("import stopped after %d words: %w", res.Added, err)
		}
		cmd.Printf("Read %d words: %d added, %d already known\n", res.Read, res.Added, res.Skipped)
		return nil
	})
}
