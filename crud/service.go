// Package crud serves an entity over HTTP the same way the generated
// controller does, but at run time: bodies are validated against the entity
// schema before the backing Service is called.
package crud

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Service when no record has the requested id.
var ErrNotFound = errors.New("crud: not found")

// Paging defaults applied when a request omits or garbles page parameters.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// PageOptions selects one page of a listing. Page is 1-based.
type PageOptions struct {
	Page     int
	PageSize int
}

// Normalize replaces non-positive values with the defaults.
func (o PageOptions) Normalize() PageOptions {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	return o
}

// Page is one page of a listing. Total counts every record, not just Data.
type Page[T any] struct {
	Data     []T `json:"data"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Response wraps a single record.
type Response[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Service is the backing store contract: T is the stored record, C the
// create payload and U the partial update payload.
//
// FindByID returns nil (or ErrNotFound) when the id is unknown. Update and
// Delete return ErrNotFound in that case.
type Service[T, C, U any] interface {
	FindAll(ctx context.Context, opts PageOptions) (Page[T], error)
	FindByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, input C) (T, error)
	Update(ctx context.Context, id string, input U) (T, error)
	Delete(ctx context.Context, id string) error
}
