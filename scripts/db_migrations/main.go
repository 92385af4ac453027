package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/budget-ledger/internal/config"
	"github.com/carson-networks/budget-ledger/internal/storage/sqlconfig"
)

func main() {
	_ = godotenv.Load()

	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	migration, err := sqlconfig.RunMigrations(env.PostgresURL())
	if err != nil {
		logrus.WithError(err).Fatal("sqlconfig.RunMigrations")
		return
	}

	logrus.WithFields(logrus.Fields{
		"preMigrationVersion":  migration.Before,
		"postMigrationVersion": migration.After,
	}).Info("Migration status")
}
