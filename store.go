package main

import (
	"context"
	"fmt"
)

// ContentStore abstracts the remote side of an upload for testability.
// Implementations include the GitHub Contents API, an S3 bucket and the recording mock used in tests.
type ContentStore interface {
	// Put creates (or, when the store supports it, updates) the file at input.Path.
	Put(ctx context.Context, input *PutInput) (*PutOutput, error)
}

// PutInput contains the parameters of a single file write.
type PutInput struct {
	Path    string
	Content []byte
	Message string
}

// PutOutput contains the result of a write the remote accepted.
type PutOutput struct {
	StatusCode int
	// SHA is the blob SHA (GitHub) or ETag (S3) of the stored content, when known.
	SHA string
}

// StatusError is returned by a store when the remote answered with a status outside the
// success set. Body holds the response body for diagnostics.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// isSuccessStatus covers both "updated" (200) and "created" (201).
func isSuccessStatus(code int) bool {
	return code == 200 || code == 201
}
