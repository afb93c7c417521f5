package core

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashWriter streams data into a sha256 digest
type HashWriter struct {
	h hash.Hash
}

// NewHashWriter returns an empty streaming hasher
func NewHashWriter() *HashWriter {
	return &HashWriter{h: sha256.New()}
}

// WriteField writes s followed by a unit separator so adjacent fields cannot merge
func (w *HashWriter) WriteField(s string) {
	io.WriteString(w.h, s)
	w.h.Write([]byte{0x1f})
}

// EndRecord marks a record boundary
func (w *HashWriter) EndRecord() {
	w.h.Write([]byte{0x1e})
}

// Sum returns the hash of everything written so far
func (w *HashWriter) Sum() Hash {
	return Hash(hex.EncodeToString(w.h.Sum(nil)))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex digits
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}
