package main

import (
	"fmt"

	"vocab-quiz/internal/config"
	"vocab-quiz/internal/logger"
	"vocab-quiz/internal/repository"
	"vocab-quiz/internal/service"

	"github.com/spf13/cobra"
)

// Flag overrides of the loaded configuration. Empty means "use the config".
var (
	storeBackend   string
	vocabFile      string
	difficultyFile string
	sqlDriver      string
	sqlDSN         string
)

var rootCmd = &cobra.Command{
	Use:          "vocabctl",
	Short:        "Maintain the vocabulary quiz stores",
	Long:         `Inspect and edit the persisted vocabulary and difficulty model, and migrate SQL stores.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&storeBackend, "store", "", "Store backend: file, sql or redis")
	flags.StringVar(&vocabFile, "vocab-file", "", "Vocabulary file for the file backend")
	flags.StringVar(&difficultyFile, "difficulty-file", "", "Difficulty file for the file backend")
	flags.StringVar(&sqlDriver, "sql-driver", "", "SQL driver: sqlite, postgres or oracle")
	flags.StringVar(&sqlDSN, "sql-dsn", "", "SQL data source name")
}

// loadConfig reads the configuration and applies the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if storeBackend != "" {
		cfg.Store.Backend = storeBackend
	}
	if vocabFile != "" {
		cfg.Store.VocabFile = vocabFile
	}
	if difficultyFile != "" {
		cfg.Store.DifficultyFile = difficultyFile
	}
	if sqlDriver != "" {
		cfg.Store.SQL.Driver = sqlDriver
	}
	if sqlDSN != "" {
		cfg.Store.SQL.DSN = sqlDSN
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withVocabularyService opens the configured stores for the duration of fn.
func withVocabularyService(cmd *cobra.Command, fn func(cfg *config.Config, svc *service.VocabularyService) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	stores, err := repository.NewStores(cmd.Context(), cfg.Store, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to open stores: %w", err)
	}
	defer stores.Close()
	return fn(cfg, service.NewVocabularyService(stores.Vocabulary, stores.Difficulty))
}
