package main

import (
	"github.com/spf13/cobra"
	"github.com/yoockh/careerpilot/config"
	"github.com/yoockh/careerpilot/internal/logger"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create Postgres tables and Mongo indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel)

			if err := config.InitPostgres(cfg.Postgres.URI); err != nil {
				return err
			}
			if err := config.MigratePostgres(); err != nil {
				return err
			}
			log.Info("postgres migrated")

			if err := config.InitMongo(cfg.Mongo.URI, cfg.Mongo.DB); err != nil {
				return err
			}
			if err := config.EnsureMongoIndexes(); err != nil {
				return err
			}
			log.Info("mongo indexes ensured")
			return nil
		},
	}
}
