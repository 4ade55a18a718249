// Package password produces and checks self-describing PBKDF2-SHA256 digests
// of the form pbkdf2_sha256$<iterations>$<salt>$<base64 key>.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"
)

const (
	Algorithm         = "pbkdf2_sha256"
	DefaultIterations = 260000

	saltBytes    = 32
	keyLength    = sha256.Size
	minLength    = 10
	specialChars = "_@$#%&"
)

// ErrIntegrity marks a stored digest that is well-formed but cannot be
// trusted: a foreign algorithm or a broken iteration count.
var ErrIntegrity = errors.New("password digest integrity violation")

// NewSalt draws 32 bytes from r and hex-encodes them.
func NewSalt(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, saltBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Hash derives the digest for password with the given salt text.
func Hash(password, salt string, iterations int) string {
	return Algorithm + "$" + strconv.Itoa(iterations) + "$" + salt + "$" + derive(password, salt, iterations)
}

func derive(password, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}

// Verify reports whether password matches digest. A digest that does not
// split into four fields is a mismatch, not an error.
func Verify(password, digest string) (bool, error) {
	if strings.Count(digest, "$") != 3 {
		return false, nil
	}
	parts := strings.SplitN(digest, "$", 4)
	algorithm, rawIterations, salt, stored := parts[0], parts[1], parts[2], parts[3]

	if algorithm != Algorithm {
		return false, fmt.Errorf("%w: algorithm %q", ErrIntegrity, algorithm)
	}
	iterations, err := strconv.Atoi(rawIterations)
	if err != nil || iterations <= 0 {
		return false, fmt.Errorf("%w: iterations %q", ErrIntegrity, rawIterations)
	}

	computed := derive(password, salt, iterations)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1, nil
}

// IsStrong applies the registration policy: at least 10 characters, a lower
// and an upper case ASCII letter, a digit, one of _@$#%& and no whitespace.
func IsStrong(password string) bool {
	if utf8.RuneCountInString(password) < minLength {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return false
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}
	return lower && upper && digit && special
}
