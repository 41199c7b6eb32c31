// Package repository contains data access layer abstractions.
// Implementations live in subpackages: postgres for users, mongo for documents and engagement.
package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique key.
	ErrDuplicate = errors.New("duplicate record")
)

// PageQuery holds limit/offset pagination parameters. A zero Limit means no limit.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// Paginate slices items according to pq. Out-of-range offsets yield an empty page.
func Paginate[T any](items []T, pq PageQuery) *PageResult[T] {
	total := len(items)
	start := pq.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	// Compared against the remainder so huge limits cannot overflow.
	if pq.Limit > 0 && pq.Limit < total-start {
		end = start + pq.Limit
	}
	page := make([]T, 0, end-start)
	page = append(page, items[start:end]...)
	return &PageResult[T]{Items: page, Total: total}
}
