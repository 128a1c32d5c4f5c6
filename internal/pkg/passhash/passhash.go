// Package passhash hashes secrets of any length with bcrypt.
//
// bcrypt only reads the first 72 bytes of its input, so the secret is first
// reduced to a fixed-size SHA-256 digest. The digest is base64 encoded to keep
// NUL bytes out of the bcrypt input.
package passhash

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrMismatch = errors.New("password does not match")

func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash failed: %w", err)
	}
	return string(hash), nil
}

func Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("bcrypt compare failed: %w", err)
	}
	return nil
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
