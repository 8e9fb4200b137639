// Package password generates initial passwords for newly provisioned accounts.
package password

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	// Seed guarantees the digit, upper and lower case classes the tenant policy requires.
	Seed = "Pass1234"

	// RandomLen is the number of random characters appended to Seed.
	RandomLen = 12

	// byteRange is the total number of possible byte values (2^8).
	byteRange = 256
)

// Chars are the random characters drawn from.
var Chars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789") //nolint:gochecknoglobals

// ErrCharset is returned for an unusable character set.
var ErrCharset = errors.New("charset must hold between 2 and 256 characters")

// New returns Seed plus RandomLen random characters, shuffled.
func New() (string, error) {
	random, err := Random(RandomLen, Chars)
	if err != nil {
		return "", err
	}

	p := append([]byte(Seed), random...)

	if err = shuffle(p); err != nil {
		return "", err
	}

	return string(p), nil
}

// Random returns length characters drawn uniformly from chars.
func Random(length int, chars []byte) ([]byte, error) {
	clen := len(chars)
	if clen < 2 || clen > byteRange {
		return nil, ErrCharset
	}

	// bytes at or above limit would bias the modulo
	limit := byteRange - (byteRange % clen)
	out := make([]byte, 0, length)
	buf := make([]byte, length*2) //nolint:mnd

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}

		for _, b := range buf {
			if int(b) >= limit {
				continue
			}

			out = append(out, chars[int(b)%clen])
			if len(out) == length {
				break
			}
		}
	}

	return out, nil
}

// shuffle is a Fisher-Yates shuffle on crypto/rand.
func shuffle(p []byte) error {
	for i := len(p) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}

		j := int(n.Int64())
		p[i], p[j] = p[j], p[i]
	}

	return nil
}
