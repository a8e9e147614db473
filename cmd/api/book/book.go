package book

import (
	"time"
)

type Book struct {
	ID          int64
	Title       string
	Author      string
	Year        int
	Price       float64
	InStock     bool
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateBookRequest struct {
	Title       string
	Author      string
	Year        *int
	Price       *float64
	InStock     *bool
	Description *string
}

/* Partial update payload. A nil field means "leave it untouched". */
type UpdateBookRequest struct {
	ID          int64
	Title       *string
	Author      *string
	Year        *int
	Price       *float64
	InStock     *bool
	Description *string
}

/* Overwrites on the stored book exactly the fields present in the update request. */
func Merge(stored Book, req UpdateBookRequest) Book {
	if req.Title != nil {
		stored.Title = *req.Title
	}
	if req.Author != nil {
		stored.Author = *req.Author
	}
	if req.Year != nil {
		stored.Year = *req.Year
	}
	if req.Price != nil {
		stored.Price = *req.Price
	}
	if req.InStock != nil {
		stored.InStock = *req.InStock
	}
	if req.Description != nil {
		stored.Description = req.Description
	}
	return stored
}

/* Builds a new book from a create request, applying the in_stock default. */
func NewBook(req CreateBookRequest, now time.Time) Book {
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	return Book{
		Title:       req.Title,
		Author:      req.Author,
		Year:        *req.Year,
		Price:       *req.Price,
		InStock:     inStock,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
