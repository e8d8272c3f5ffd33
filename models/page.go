package models

import "math"

// PageRequest addresses one page of a listing. Page is 1-based.
type PageRequest struct {
	Page     int
	PageSize int
}

// MaxPage returns the last page number of the given size whose offset still
// fits in an int.
func MaxPage(pageSize int) int {
	if pageSize <= 0 {
		return math.MaxInt
	}
	return math.MaxInt / pageSize
}

// Offset returns the number of rows to skip. Pages beyond MaxPage saturate
// at math.MaxInt instead of wrapping around.
func (p PageRequest) Offset() int {
	if p.Page < 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page > MaxPage(p.PageSize) {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Page is the paginated listing envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether another page follows req given the total count.
func HasNext(req PageRequest, count int) bool {
	return req.Offset() < count-req.PageSize
}
