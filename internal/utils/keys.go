package utils

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveKey expands secret into a 32-byte key bound to info, so one
// configured secret can serve several independent purposes.
func DeriveKey(secret, info string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("empty secret")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("error deriving key: %w", err)
	}

	return key, nil
}
