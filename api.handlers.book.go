package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// GetAllBooks godoc
// @Summary List the whole reading list
// @Produce json
// @Success 200 {array} Book
// @Failure 500 {object} APIMessage
// @Router /api/books [get]
func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	books, err := api.bookService.GetAll(r.Context())
	if err != nil {
		api.logger.Error("failed to get all books", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusInternalServerError, "failed to get all books"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to get all books", zap.String("request.id", requestID), zap.Int("books.total", len(books)))
	if err = WriteJSONResponse(w, http.StatusOK, books); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// CreateBook godoc
// @Summary Add a new book to the reading list
// @Accept json
// @Produce json
// @Param book body CreateBookRequest true "title and author"
// @Success 201 {object} Book
// @Failure 400 {object} APIMessage
// @Failure 500 {object} APIMessage
// @Router /api/books [post]
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	var req CreateBookRequest
	if err := DecodeRequestBody(r, &req); err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusBadRequest, "invalid request body"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	if err := ValidateCreateBookRequest(&req); err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusBadRequest, err.Error()); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err := api.bookService.Create(r.Context(), req.Title, req.Author)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusInternalServerError, "failed to create the book"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to create book", zap.Int64("book.id", book.ID), zap.String("request.id", requestID))
	if err = WriteJSONResponse(w, http.StatusCreated, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ToggleBook godoc
// @Summary Flip the reading status of a book between READ and UNREAD
// @Produce json
// @Param id path int true "book id"
// @Success 200 {object} Book
// @Failure 400 {object} APIMessage
// @Failure 404 {object} APIMessage
// @Failure 500 {object} APIMessage
// @Router /api/books/{id}/toggle [patch]
func (api *APIHandler) ToggleBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id, err := GetBookIDParam(ps)
	if err != nil {
		api.logger.Error("book id provided is not valid", zap.String("book.id", ps.ByName("id")), zap.String("request.id", requestID))
		if err = WriteErrorResponse(w, http.StatusBadRequest, err.Error()); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err := api.bookService.Toggle(r.Context(), id)
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Error("book does not exist", zap.Int64("book.id", id), zap.String("request.id", requestID))
		if err = WriteErrorResponse(w, http.StatusNotFound, "book does not exist"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to toggle book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusInternalServerError, "failed to toggle the book"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to toggle book", zap.Int64("book.id", id), zap.String("book.status", string(book.Status)), zap.String("request.id", requestID))
	if err = WriteJSONResponse(w, http.StatusOK, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// RateBook godoc
// @Summary Rate a book from 1 to 5
// @Accept json
// @Produce json
// @Param id path int true "book id"
// @Param rating body RateBookRequest true "rating between 1 and 5"
// @Success 200 {object} Book
// @Failure 400 {object} APIMessage
// @Failure 404 {object} APIMessage
// @Failure 500 {object} APIMessage
// @Router /api/books/{id}/rating [patch]
func (api *APIHandler) RateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id, err := GetBookIDParam(ps)
	if err != nil {
		api.logger.Error("book id provided is not valid", zap.String("book.id", ps.ByName("id")), zap.String("request.id", requestID))
		if err = WriteErrorResponse(w, http.StatusBadRequest, err.Error()); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	var req RateBookRequest
	if err := DecodeRequestBody(r, &req); err != nil {
		api.logger.Error("failed to rate book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusBadRequest, "invalid request body"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	if err := ValidateRateBookRequest(&req); err != nil {
		api.logger.Error("failed to rate book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusBadRequest, err.Error()); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err := api.bookService.Rate(r.Context(), id, *req.Rating)
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Error("book does not exist", zap.Int64("book.id", id), zap.String("request.id", requestID))
		if err = WriteErrorResponse(w, http.StatusNotFound, "book does not exist"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to rate book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusInternalServerError, "failed to rate the book"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to rate book", zap.Int64("book.id", id), zap.Int("book.rating", book.Rating), zap.String("request.id", requestID))
	if err = WriteJSONResponse(w, http.StatusOK, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteOneBook godoc
// @Summary Remove a book from the reading list
// @Produce json
// @Param id path int true "book id"
// @Success 204
// @Failure 400 {object} APIMessage
// @Failure 404 {object} APIMessage
// @Failure 500 {object} APIMessage
// @Router /api/books/{id} [delete]
func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id, err := GetBookIDParam(ps)
	if err != nil {
		api.logger.Error("book id provided is not valid", zap.String("book.id", ps.ByName("id")), zap.String("request.id", requestID))
		if err = WriteErrorResponse(w, http.StatusBadRequest, err.Error()); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	existed, err := api.bookService.Delete(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to delete book", zap.Int64("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusInternalServerError, "failed to delete the book"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if !existed {
		api.logger.Error("book does not exist", zap.Int64("book.id", id), zap.String("request.id", requestID))
		if err = WriteErrorResponse(w, http.StatusNotFound, "book does not exist"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to delete book", zap.Int64("book.id", id), zap.String("request.id", requestID))
	w.WriteHeader(http.StatusNoContent)
}
