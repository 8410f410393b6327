package main

import (
	"context"
	"errors"
	"time"
)

// BookStatus is the reading state of a book. Only two values exist.
type BookStatus string

const (
	StatusRead   BookStatus = "READ"
	StatusUnread BookStatus = "UNREAD"
)

// Toggled returns the opposite reading status.
func (s BookStatus) Toggled() BookStatus {
	if s == StatusRead {
		return StatusUnread
	}
	return StatusRead
}

// IsValid tells if the status is one of the two known values.
func (s BookStatus) IsValid() bool {
	return s == StatusRead || s == StatusUnread
}

// Ratings accepted by the api layer on update. The zero value
// means unrated and is only reachable at creation time.
const (
	MinRating = 1
	MaxRating = 5
)

// Book represents a single reading list entry.
type Book struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Status    BookStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	Rating    int        `json:"rating"`
}

// ErrBookNotFound is returned by any store when the requested id does
// not match a persisted book. Callers check it with errors.Is and must
// never treat it as a storage fault.
var ErrBookNotFound = errors.New("book not found")

// BookStorage defines the persistence contract for reading list entries.
// Implementations assign the id, the creation timestamp and the default
// status/rating on Add. Toggle and Rate perform their find-and-update as
// one atomic operation so two concurrent requests on the same id cannot
// produce a lost update.
type BookStorage interface {
	GetAll(ctx context.Context) ([]Book, error)
	Add(ctx context.Context, title, author string) (Book, error)
	Toggle(ctx context.Context, id int64) (Book, error)
	Rate(ctx context.Context, id int64, rating int) (Book, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Close() error
}
