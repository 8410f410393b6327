package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	GetAllFunc func(ctx context.Context) ([]Book, error)
	AddFunc    func(ctx context.Context, title, author string) (Book, error)
	ToggleFunc func(ctx context.Context, id int64) (Book, error)
	RateFunc   func(ctx context.Context, id int64, rating int) (Book, error)
	DeleteFunc func(ctx context.Context, id int64) (bool, error)
}

// GetAll mocks the behavior of retrieving all books by the repository.
func (m *MockBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return m.GetAllFunc(ctx)
}

// Add mocks the behavior of book creation by the repository.
func (m *MockBookStorage) Add(ctx context.Context, title, author string) (Book, error) {
	return m.AddFunc(ctx, title, author)
}

// Toggle mocks the behavior of flipping a book status by the repository.
func (m *MockBookStorage) Toggle(ctx context.Context, id int64) (Book, error) {
	return m.ToggleFunc(ctx, id)
}

// Rate mocks the behavior of rating a book by the repository.
func (m *MockBookStorage) Rate(ctx context.Context, id int64, rating int) (Book, error) {
	return m.RateFunc(ctx, id, rating)
}

// Delete mocks the behavior of deleting a book by the repository.
func (m *MockBookStorage) Delete(ctx context.Context, id int64) (bool, error) {
	return m.DeleteFunc(ctx, id)
}

// Close mocks the shutdown of the repository.
func (m *MockBookStorage) Close() error {
	return nil
}

// MockClocker implements a fake Clocker. Tests mutate MockNow
// to control the timestamps assigned by the stores.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// Zero returns zero time.
func (mck *MockClocker) Zero() time.Time {
	return time.Time{}
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}
