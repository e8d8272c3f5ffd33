package store

import (
	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/models"
)

// Repositories groups every repository backed by one database.
type Repositories struct {
	UserRepository     UserRepository
	CategoryRepository SlugNamedRepository
	GenreRepository    SlugNamedRepository
	TitleRepository    TitleRepository
	ReviewRepository   ReviewRepository
	CommentRepository  CommentRepository
}

// NewRepositories wires all PostgreSQL repositories over db.
func NewRepositories(db *DB, log *logger.Logger) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(db, log),
		CategoryRepository: NewSlugNamedRepository(db, models.KindCategory, log),
		GenreRepository:    NewSlugNamedRepository(db, models.KindGenre, log),
		TitleRepository:    NewTitleRepository(db, log),
		ReviewRepository:   NewReviewRepository(db, log),
		CommentRepository:  NewCommentRepository(db, log),
	}
}
