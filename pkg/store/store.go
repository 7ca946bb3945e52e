// Package store implements the object-store collaborator used to persist
// badge images.
package store

import "context"

// Store persists an artifact and returns a URL where it can be fetched.
// Implementations own their own timeout and retry policy; the issuance
// pipeline treats any error as fatal for the current request.
type Store interface {
	// Put writes data under the suggested name and returns the object URL.
	Put(ctx context.Context, name string, data []byte) (string, error)
}
