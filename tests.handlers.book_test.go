package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestAPIHandler wires an api handler on top of a mocked storage.
func newTestAPIHandler(store BookStorage) *APIHandler {
	config := &Config{}
	bs := NewBookService(zap.NewNop(), config, store)
	return NewAPIHandler(zap.NewNop(), config, &Statistics{started: NewMockClocker().Now()}, NewMockClocker(), NewMockUIDHandler("abc", true), bs)
}

// testBook returns a deterministic book record.
func testBook() Book {
	return Book{
		ID:        1,
		Title:     "Dune",
		Author:    "Frank Herbert",
		Status:    StatusUnread,
		CreatedAt: time.Date(2023, 7, 2, 0, 0, 0, 0, time.UTC),
		Rating:    0,
	}
}

const testBookJSON = `{"id":1, "title":"Dune", "author":"Frank Herbert", "status":"UNREAD", "createdAt":"2023-07-02T00:00:00Z", "rating":0}`

// TestStatusHandler ensures api handler can provides its status.
func TestStatusHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: NewMockClocker().Now()}, NewMockClocker(), NewMockUIDHandler("abc", true), nil)
	api.Status(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
	m := make(map[string]interface{})
	err = json.Unmarshal(data, &m)
	assert.NoError(t, err)

	v, ok := m["status"]
	assert.True(t, ok)
	assert.Equal(t, "up & running since 0 mins", v)

	v, ok = m["message"]
	assert.True(t, ok)
	assert.Equal(t, "Hello. Reading list api is available. Enjoy :)", v)
}

// TestGetAllBooksHandler ensures the whole list is served as a plain array.
func TestGetAllBooksHandler(t *testing.T) {
	t.Run("should pass: list with one book", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{
			GetAllFunc: func(ctx context.Context) ([]Book, error) {
				return []Book{testBook()}, nil
			},
		})
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		w := httptest.NewRecorder()
		api.GetAllBooks(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
		assert.JSONEq(t, `[`+testBookJSON+`]`, string(data))
	})

	t.Run("should pass: empty list is a valid state", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{
			GetAllFunc: func(ctx context.Context) ([]Book, error) {
				return []Book{}, nil
			},
		})
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		w := httptest.NewRecorder()
		api.GetAllBooks(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.JSONEq(t, `[]`, string(data))
	})

	t.Run("should fail: storage fault", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{
			GetAllFunc: func(ctx context.Context) ([]Book, error) {
				return nil, errors.New("storage failure")
			},
		})
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		w := httptest.NewRecorder()
		api.GetAllBooks(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.JSONEq(t, `{"message":"failed to get all books"}`, string(data))
	})
}

// TestCreateBookHandler ensures api handler can create a book.
//
//nolint:funlen
func TestCreateBookHandler(t *testing.T) {
	t.Run("should pass: valid payload", func(t *testing.T) {
		var gotTitle, gotAuthor string
		api := newTestAPIHandler(&MockBookStorage{
			AddFunc: func(ctx context.Context, title, author string) (Book, error) {
				gotTitle, gotAuthor = title, author
				return testBook(), nil
			},
		})
		payload := []byte(`{"title":"  Dune  ", "author":" Frank Herbert "}`)
		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.CreateBook(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, res.StatusCode)
		assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
		assert.JSONEq(t, testBookJSON, string(data))
		// whitespace is stripped before the storage sees the fields.
		assert.Equal(t, "Dune", gotTitle)
		assert.Equal(t, "Frank Herbert", gotAuthor)
	})

	t.Run("should fail: storage insertion failure", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{
			AddFunc: func(ctx context.Context, title, author string) (Book, error) {
				return Book{}, errors.New("storage failure")
			},
		})
		payload := []byte(`{"title":"Dune", "author":"Frank Herbert"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.CreateBook(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.JSONEq(t, `{"message":"failed to create the book"}`, string(data))
	})

	t.Run("should fail: invalid payload", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{})
		payload := []byte(`{"title":1, "author":"Frank Herbert"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.CreateBook(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.JSONEq(t, `{"message":"invalid request body"}`, string(data))
	})

	t.Run("should fail: required field in payload", func(t *testing.T) {
		testCases := []struct {
			name     string
			payload  []byte
			expected string
		}{
			{
				name:     "empty title",
				payload:  []byte(`{"title":"", "author":"Frank Herbert"}`),
				expected: `{"message":"title is required"}`,
			},
			{
				name:     "blank title",
				payload:  []byte(`{"title":"   ", "author":"Frank Herbert"}`),
				expected: `{"message":"title is required"}`,
			},
			{
				name:     "missing author",
				payload:  []byte(`{"title":"Dune"}`),
				expected: `{"message":"author is required"}`,
			},
			{
				name:     "blank author",
				payload:  []byte(`{"title":"Dune", "author":"  "}`),
				expected: `{"message":"author is required"}`,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				var called bool
				api := newTestAPIHandler(&MockBookStorage{
					AddFunc: func(ctx context.Context, title, author string) (Book, error) {
						called = true
						return Book{}, nil
					},
				})
				req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(tc.payload))
				w := httptest.NewRecorder()
				api.CreateBook(w, req, httprouter.Params{})
				res := w.Result()
				defer res.Body.Close()
				assert.Equal(t, http.StatusBadRequest, res.StatusCode)
				data, err := io.ReadAll(res.Body)
				assert.NoError(t, err)
				assert.JSONEq(t, tc.expected, string(data))
				// validation failures never reach the storage.
				assert.False(t, called)
			})
		}
	})
}

// TestToggleBookHandler ensures api handler can flip a book status.
func TestToggleBookHandler(t *testing.T) {
	t.Run("should pass: existing book", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{
			ToggleFunc: func(ctx context.Context, id int64) (Book, error) {
				book := testBook()
				book.Status = book.Status.Toggled()
				return book, nil
			},
		})
		req := httptest.NewRequest(http.MethodPatch, "/api/books/1/toggle", nil)
		w := httptest.NewRecorder()
		api.ToggleBook(w, req, httprouter.Params{{Key: "id", Value: "1"}})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		expected := `{"id":1, "title":"Dune", "author":"Frank Herbert", "status":"READ", "createdAt":"2023-07-02T00:00:00Z", "rating":0}`
		assert.JSONEq(t, expected, string(data))
	})

	t.Run("should fail: non numeric id", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{})
		req := httptest.NewRequest(http.MethodPatch, "/api/books/abc/toggle", nil)
		w := httptest.NewRecorder()
		api.ToggleBook(w, req, httprouter.Params{{Key: "id", Value: "abc"}})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.JSONEq(t, `{"message":"book id must be an integer"}`, string(data))
	})

	t.Run("should fail: missing book", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{
			ToggleFunc: func(ctx context.Context, id int64) (Book, error) {
				return Book{}, ErrBookNotFound
			},
		})
		req := httptest.NewRequest(http.MethodPatch, "/api/books/42/toggle", nil)
		w := httptest.NewRecorder()
		api.ToggleBook(w, req, httprouter.Params{{Key: "id", Value: "42"}})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.JSONEq(t, `{"message":"book does not exist"}`, string(data))
	})

	t.Run("should fail: storage fault", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{
			ToggleFunc: func(ctx context.Context, id int64) (Book, error) {
				return Book{}, errors.New("storage failure")
			},
		})
		req := httptest.NewRequest(http.MethodPatch, "/api/books/1/toggle", nil)
		w := httptest.NewRecorder()
		api.ToggleBook(w, req, httprouter.Params{{Key: "id", Value: "1"}})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.JSONEq(t, `{"message":"failed to toggle the book"}`, string(data))
	})
}

// TestRateBookHandler ensures rating updates respect the 1 to 5 contract.
//
//nolint:funlen
func TestRateBookHandler(t *testing.T) {
	t.Run("should pass: rating within range", func(t *testing.T) {
		var gotRating int
		api := newTestAPIHandler(&MockBookStorage{
			RateFunc: func(ctx context.Context, id int64, rating int) (Book, error) {
				gotRating = rating
				book := testBook()
				book.Rating = rating
				return book, nil
			},
		})
		payload := []byte(`{"rating":5}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/books/1/rating", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.RateBook(w, req, httprouter.Params{{Key: "id", Value: "1"}})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, 5, gotRating)
		expected := `{"id":1, "title":"Dune", "author":"Frank Herbert", "status":"UNREAD", "createdAt":"2023-07-02T00:00:00Z", "rating":5}`
		assert.JSONEq(t, expected, string(data))
	})

	t.Run("should fail: rating out of range", func(t *testing.T) {
		testCases := []struct {
			name    string
			payload []byte
		}{
			{"zero rating", []byte(`{"rating":0}`)},
			{"negative rating", []byte(`{"rating":-1}`)},
			{"rating above five", []byte(`{"rating":7}`)},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				var called bool
				api := newTestAPIHandler(&MockBookStorage{
					RateFunc: func(ctx context.Context, id int64, rating int) (Book, error) {
						called = true
						return Book{}, nil
					},
				})
				req := httptest.NewRequest(http.MethodPatch, "/api/books/1/rating", bytes.NewBuffer(tc.payload))
				w := httptest.NewRecorder()
				api.RateBook(w, req, httprouter.Params{{Key: "id", Value: "1"}})
				res := w.Result()
				defer res.Body.Close()
				data, err := io.ReadAll(res.Body)
				assert.NoError(t, err)
				assert.Equal(t, http.StatusBadRequest, res.StatusCode)
				assert.JSONEq(t, `{"message":"rating must be between 1 and 5"}`, string(data))
				// out of range ratings never reach the storage.
				assert.False(t, called)
			})
		}
	})

	t.Run("should fail: missing rating field", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{})
		payload := []byte(`{}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/books/1/rating", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.RateBook(w, req, httprouter.Params{{Key: "id", Value: "1"}})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.JSONEq(t, `{"message":"rating is required"}`, string(data))
	})

	t.Run("should fail: non numeric rating", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{})
		payload := []byte(`{"rating":"five"}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/books/1/rating", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.RateBook(w, req, httprouter.Params{{Key: "id", Value: "1"}})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.JSONEq(t, `{"message":"invalid request body"}`, string(data))
	})

	t.Run("should fail: missing book", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{
			RateFunc: func(ctx context.Context, id int64, rating int) (Book, error) {
				return Book{}, ErrBookNotFound
			},
		})
		payload := []byte(`{"rating":3}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/books/42/rating", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.RateBook(w, req, httprouter.Params{{Key: "id", Value: "42"}})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.JSONEq(t, `{"message":"book does not exist"}`, string(data))
	})
}

// TestDeleteOneBookHandler ensures deletion maps the storage boolean to http codes.
func TestDeleteOneBookHandler(t *testing.T) {
	t.Run("should pass: existing book", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{
			DeleteFunc: func(ctx context.Context, id int64) (bool, error) {
				return true, nil
			},
		})
		req := httptest.NewRequest(http.MethodDelete, "/api/books/1", nil)
		w := httptest.NewRecorder()
		api.DeleteOneBook(w, req, httprouter.Params{{Key: "id", Value: "1"}})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, res.StatusCode)
		assert.Empty(t, data)
	})

	t.Run("should fail: missing book", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{
			DeleteFunc: func(ctx context.Context, id int64) (bool, error) {
				return false, nil
			},
		})
		req := httptest.NewRequest(http.MethodDelete, "/api/books/42", nil)
		w := httptest.NewRecorder()
		api.DeleteOneBook(w, req, httprouter.Params{{Key: "id", Value: "42"}})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.JSONEq(t, `{"message":"book does not exist"}`, string(data))
	})

	t.Run("should fail: non numeric id", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{})
		req := httptest.NewRequest(http.MethodDelete, "/api/books/abc", nil)
		w := httptest.NewRecorder()
		api.DeleteOneBook(w, req, httprouter.Params{{Key: "id", Value: "abc"}})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.JSONEq(t, `{"message":"book id must be an integer"}`, string(data))
	})

	t.Run("should fail: storage fault", func(t *testing.T) {
		api := newTestAPIHandler(&MockBookStorage{
			DeleteFunc: func(ctx context.Context, id int64) (bool, error) {
				return false, errors.New("storage failure")
			},
		})
		req := httptest.NewRequest(http.MethodDelete, "/api/books/1", nil)
		w := httptest.NewRecorder()
		api.DeleteOneBook(w, req, httprouter.Params{{Key: "id", Value: "1"}})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.JSONEq(t, `{"message":"failed to delete the book"}`, string(data))
	})
}
