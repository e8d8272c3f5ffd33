// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SlugNamed is the shared shape of categories and genres: administratively
// managed dictionary entries addressed by a unique slug.
type SlugNamed struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// SlugKind identifies the dictionary a slug-named resource belongs to.
// Categories and genres share the same shape and storage layout.
type SlugKind string

const (
	KindCategory SlugKind = "categories"
	KindGenre    SlugKind = "genres"
)

// SlugNamedFilter narrows a category or genre listing.
type SlugNamedFilter struct {
	// Search matches names containing the value (case-insensitive).
	Search string
	PageRequest
}

// Title is a reviewed work.
type Title struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Year        int         `json:"year"`
	Description *string     `json:"description"`
	Genre       []SlugNamed `json:"genre"`
	Category    *SlugNamed  `json:"category"`

	// Rating is the rounded average review score, nil without reviews.
	Rating *int `json:"rating"`
}

// TitleInput is the write representation of a title. Category and genres
// are referenced by slug. On partial updates nil fields are left untouched.
type TitleInput struct {
	Name        *string   `json:"name,omitempty"`
	Year        *int      `json:"year,omitempty"`
	Description *string   `json:"description,omitempty"`
	Genre       *[]string `json:"genre,omitempty"`
	Category    *string   `json:"category,omitempty"`
}

// TitleWrite is a validated TitleInput with slugs resolved to ids.
type TitleWrite struct {
	Name        *string
	Year        *int
	Description *string

	// CategorySet marks the category as provided. A nil CategoryID then
	// leaves the title uncategorized.
	CategorySet bool
	CategoryID  *int64

	GenreIDs *[]int64
}

// TitleFilter narrows the title listing.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
	PageRequest
}
