package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-yamdb/internal/config"
	"github.com/MKhiriev/go-yamdb/internal/handler"
	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/internal/mailer"
	"github.com/MKhiriev/go-yamdb/internal/server"
	"github.com/MKhiriev/go-yamdb/internal/service"
	"github.com/MKhiriev/go-yamdb/internal/store"
	"github.com/MKhiriev/go-yamdb/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// defaultVersion is the configured version placeholder replaced by the
// linker-injected build version.
const defaultVersion = "dev"

func main() {
	buildInfo := models.NewAppBuildInfo(orNA(buildVersion), orNA(buildDate), orNA(buildCommit))
	printBuildInfo(buildInfo)

	log := logger.NewLogger("yamdb-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if buildVersion != "" && cfg.App.Version == defaultVersion {
		cfg.App.Version = buildInfo.BuildVersion()
	}

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	sender, err := mailer.NewSender(ctx, cfg.Mailer, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating mail sender")
	}
	defer sender.Close()

	services, err := service.NewServices(store.NewRepositories(db, log), sender, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
