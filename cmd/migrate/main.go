package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/database/postgres"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/migration"
	"github.com/vfg2006/affiliate-serving-api/internal/config"
	"github.com/vfg2006/affiliate-serving-api/pkg/log"
)

func main() {
	log.Setup("info")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	log.Setup(cfg.App.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	startTime := time.Now()
	if err := migration.Apply(ctx, conn, migration.Schema); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar migrações")
	}

	logrus.WithFields(logrus.Fields{
		"steps":    len(migration.Schema),
		"duration": time.Since(startTime).String(),
	}).Info("Migrações aplicadas com sucesso")
}
