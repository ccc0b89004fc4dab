package cmd

import (
	"fmt"

	"skillpractice/backend/config"
	"skillpractice/backend/utils"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "skill-practice",
	Short:         "Skill practice backend",
	Long:          "Skill practice backend: accounts, course catalog, progress tracking and smart practice sessions.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "", "Path to an env file (default .env)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a JSON or YAML course catalog (overrides CATALOG_PATH)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(importLegacyCmd)
}

// resolveConfig loads the configuration, honoring --env-file and --catalog.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var envFiles []string
	if p, _ := cmd.Flags().GetString("env-file"); p != "" {
		envFiles = append(envFiles, p)
	}
	cfg, err := config.LoadConfig(envFiles...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		cfg.CatalogPath = p
	}
	return cfg, nil
}

type deps struct {
	cfg *config.Config
	log *utils.Logger
	db  *gorm.DB
}

// openDeps loads config, builds the logger and opens a migrated database.
func openDeps(cmd *cobra.Command) (*deps, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := utils.InitLogger(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	for _, w := range cfg.Warnings {
		log.Warn("Config", "warning", w)
	}

	db, err := utils.InitDB(cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err := utils.Migrate(db); err != nil {
		_ = utils.CloseDB(db)
		log.Sync()
		return nil, err
	}
	return &deps{cfg: cfg, log: log, db: db}, nil
}

func (rt *deps) Close() {
	if err := utils.CloseDB(rt.db); err != nil {
		rt.log.Warn("Closing database failed", "error", err)
	}
	rt.log.Sync()
}
