// Package ids generates short random card identifiers.
package ids

import (
	"math/rand"
	"time"
)

const (
	defaultLength  = 4
	defaultCharset = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Generator returns a new id with each invocation.
type Generator func() string

// New returns a generator producing length-character ids drawn from
// charset, seeded from the current time.
func New(length int, charset string) Generator {
	if length < 1 {
		panic("ids: length must be at least 1")
	}
	if charset == "" {
		panic("ids: charset must be non-empty")
	}
	runes := []rune(charset)
	//revive:disable-next-line:insecure-random card ids are not security-sensitive
	randGen := rand.New(rand.NewSource(time.Now().UnixNano()))

	return func() string {
		buf := make([]rune, length)
		for i := range buf {
			buf[i] = runes[randGen.Intn(len(runes))]
		}
		return string(buf)
	}
}

// NewDefault returns a generator using the package's default shape: 4
// lowercase alphanumeric characters.
func NewDefault() Generator {
	return New(defaultLength, defaultCharset)
}
