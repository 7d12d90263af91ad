package models

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage     = 0
	DefaultPageSize = 20
)

// PageRequest selects one page of a paginated endpoint. Pages are 0-indexed.
type PageRequest struct {
	Page int
	Size int
}

// FirstPage is page 0 with the default size.
func FirstPage() PageRequest {
	return PageRequest{Page: DefaultPage, Size: DefaultPageSize}
}

// Normalize replaces a negative page and a non-positive size with defaults.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = DefaultPage
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	return p
}

// Next returns the request for the following page of the same size.
func (p PageRequest) Next() PageRequest {
	p = p.Normalize()
	p.Page++
	return p
}

// Query encodes the request as "page" and "size" query parameters.
func (p PageRequest) Query() url.Values {
	p = p.Normalize()
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(p.Size))
	return q
}

// Page is the paginated envelope shared by every list endpoint.
// Last reports whether this is the final page.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Last          bool  `json:"last"`
	First         bool  `json:"first"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// HasMore reports whether another page can be requested.
func (p Page[T]) HasMore() bool {
	return !p.Last
}
