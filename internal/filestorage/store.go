// Package filestorage abstracts where document bytes live. The service only
// ever sees opaque locations; the real backing store (blob container, network
// share) is deployment configuration.
package filestorage

import "context"

// StoredFile is the storage layer's receipt for one saved file.
type StoredFile struct {
	Location string
}

// Store persists and removes document bytes.
//
//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks
type Store interface {
	Save(ctx context.Context, fileName string, content []byte) (StoredFile, error)
	Remove(ctx context.Context, location string) error
}
