package http

import (
	"time"

	"github.com/MKhiriev/go-yamdb/internal/config"
	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/internal/service"
)

type Handler struct {
	services *service.Services

	pageSize       int
	requestTimeout time.Duration
	allowedOrigins []string

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")

	pageSize := cfg.App.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Handler{
		services:       services,
		pageSize:       pageSize,
		requestTimeout: cfg.Server.RequestTimeout,
		allowedOrigins: cfg.Server.AllowedOrigins,
		logger:         logger,
	}
}
