package main

import (
	"fmt"

	"github.com/biolink/internal/config"
	"github.com/biolink/internal/db"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type rootOptions struct {
	databasePath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "biolinkctl",
		Short:        "Operator commands for the biolink profile service.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.databasePath, "db", "", "sqlite database path (defaults to DATABASE_PATH)")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newResetPasswordCmd(opts),
		newStatsCmd(opts),
	)
	return cmd
}

// open 打开数据库并执行迁移，调用方负责关闭
func (o *rootOptions) open() (*gorm.DB, config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.AppConfig{}, err
	}
	if o.databasePath != "" {
		cfg.DatabasePath = o.databasePath
	}

	gdb, err := db.Open(sqlite.Open(cfg.DatabasePath), logger.Silent)
	if err != nil {
		return nil, cfg, fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
	}
	return gdb, cfg, nil
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
}
