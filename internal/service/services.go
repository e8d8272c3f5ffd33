package service

import (
	"fmt"

	"github.com/MKhiriev/go-yamdb/internal/config"
	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/internal/mailer"
	"github.com/MKhiriev/go-yamdb/internal/store"
)

type Services struct {
	AuthService    AuthService
	UserService    UserService
	CatalogService CatalogService
	ContentService ContentService
	AppInfoService AppInfoService
}

func NewServices(repositories *store.Repositories, sender mailer.Sender, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	authService, err := NewAuthService(repositories.UserRepository, sender, cfg.App, cfg.Mailer.From, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating auth service: %w", err)
	}

	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	return &Services{
		AuthService:    authService,
		UserService:    NewUserService(repositories.UserRepository, logger),
		CatalogService: NewCatalogService(repositories.CategoryRepository, repositories.GenreRepository, repositories.TitleRepository, logger),
		ContentService: NewContentService(repositories.TitleRepository, repositories.ReviewRepository, repositories.CommentRepository, logger),
		AppInfoService: appInfoService,
	}, nil
}
