package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
)

type (
	ContextKey        string
	missingFieldError string
)

const (
	RequestIDPrefix      string     = "r"
	ContextRequestID     ContextKey = "request.id"
	ContextRequestNumber ContextKey = "request.number"
)

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(ContextRequestNumber); val != nil {
		return val.(uint64)
	}
	return 0
}

// CreateBookRequest is the payload expected when adding a book.
type CreateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// RateBookRequest is the payload expected when rating a book. The
// pointer distinguishes a missing rating field from a zero value.
type RateBookRequest struct {
	Rating *int `json:"rating"`
}

// DecodeRequestBody is a helper function to read the json content of an api request.
func DecodeRequestBody(r *http.Request, out interface{}) error {
	if r.Body == nil {
		return errors.New("invalid request body")
	}
	return json.NewDecoder(r.Body).Decode(out)
}

// ValidateCreateBookRequest trims both fields and checks that none is left empty.
func ValidateCreateBookRequest(req *CreateBookRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)

	if len(req.Title) == 0 {
		return missingFieldError("title")
	}

	if len(req.Author) == 0 {
		return missingFieldError("author")
	}

	return nil
}

// ValidateRateBookRequest ensures the rating field is present and within 1 to 5.
func ValidateRateBookRequest(req *RateBookRequest) error {
	if req.Rating == nil {
		return missingFieldError("rating")
	}

	if *req.Rating < MinRating || *req.Rating > MaxRating {
		return errors.New("rating must be between 1 and 5")
	}

	return nil
}

// GetBookIDParam parses the `:id` route parameter as the book identifier.
func GetBookIDParam(ps httprouter.Params) (int64, error) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil {
		return 0, errors.New("book id must be an integer")
	}
	return id, nil
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result. This
// helps know if the App is running in a docker container or not.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
