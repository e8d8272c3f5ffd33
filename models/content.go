// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Content is the shared shape of user-authored resources. AuthorID is the
// owner consulted by the authorization policy.
type Content struct {
	ID       int64     `json:"id"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// Review is a scored opinion about a title. One author may review a title
// only once.
type Review struct {
	Content
	TitleID int64 `json:"-"`
	Score   int   `json:"score"`
}

// Comment is a reply to a review.
type Comment struct {
	Content
	ReviewID int64 `json:"-"`
}

// ContentInput is the write representation of a review or a comment.
// Score is ignored for comments.
type ContentInput struct {
	Text  *string `json:"text,omitempty"`
	Score *int    `json:"score,omitempty"`
}
