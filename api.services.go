package main

import (
	"context"

	"go.uber.org/zap"
)

// BookServiceProvider defines what the api layer can ask the book service.
type BookServiceProvider interface {
	GetAll(ctx context.Context) ([]Book, error)
	Create(ctx context.Context, title, author string) (Book, error)
	Toggle(ctx context.Context, id int64) (Book, error)
	Rate(ctx context.Context, id int64, rating int) (Book, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// BookService sits between the handlers and the storage. All record
// semantics live in the storage, the service only delegates so the
// handlers never hold a direct reference on the backend.
type BookService struct {
	logger  *zap.Logger
	config  *Config
	storage BookStorage
}

func NewBookService(logger *zap.Logger, config *Config, storage BookStorage) BookServiceProvider {
	return &BookService{
		logger:  logger,
		config:  config,
		storage: storage,
	}
}

func (bs *BookService) GetAll(ctx context.Context) ([]Book, error) {
	return bs.storage.GetAll(ctx)
}

// Create expects title and author already trimmed and non-empty,
// that precondition belongs to the api layer and is not checked twice.
func (bs *BookService) Create(ctx context.Context, title, author string) (Book, error) {
	return bs.storage.Add(ctx, title, author)
}

func (bs *BookService) Toggle(ctx context.Context, id int64) (Book, error) {
	return bs.storage.Toggle(ctx, id)
}

func (bs *BookService) Rate(ctx context.Context, id int64, rating int) (Book, error) {
	return bs.storage.Rate(ctx, id, rating)
}

func (bs *BookService) Delete(ctx context.Context, id int64) (bool, error) {
	return bs.storage.Delete(ctx, id)
}
