package storage

import "io"

// BlobStore holds exported quiz results offered for download.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error // key or prefix; missing keys are not an error
}
