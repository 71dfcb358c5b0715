package utils

import "crypto/rand"

// Uppercase base36, same shape the share links have always used.
const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewID returns an opaque random token of n characters. Tokens are used as
// order and valentine ids; collisions are practically negligible at 8 chars
// but callers still retry on a duplicate-id error from the store.
func NewID(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("utils: crypto/rand unavailable: " + err.Error())
	}
	for i := range b {
		b[i] = idAlphabet[int(b[i])%len(idAlphabet)]
	}
	return string(b)
}
