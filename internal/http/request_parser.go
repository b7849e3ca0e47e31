// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.

package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"expensetracker/internal/services"
)

// maxFormBytes bounds the add form body.
const maxFormBytes = 64 << 10

var errInvalidID = errors.New("invalid expense id")

// ParseExpenseForm reads the add form into a service input. Values are
// sanitized but not validated; validation belongs to the service.
func ParseExpenseForm(w http.ResponseWriter, r *http.Request) (services.AddInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return services.AddInput{}, err
	}

	return services.AddInput{
		Amount:      strings.TrimSpace(r.PostForm.Get("amount")),
		Category:    sanitizeInput(r.PostForm.Get("category")),
		Date:        strings.TrimSpace(r.PostForm.Get("date")),
		Description: sanitizeInput(r.PostForm.Get("description")),
	}, nil
}

// ParseID extracts a positive record id from the {id} path segment.
func ParseID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
