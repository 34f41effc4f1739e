// Package crypto seals the subscription store at rest.
//
// Sealed data is laid out as magic | salt | nonce | AES-256-GCM ciphertext.
// The key is derived from a passphrase with PBKDF2-SHA256 using the salt
// stored alongside the data.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	iterations = 100000
	keySize    = 32 // AES-256
)

var magic = []byte("WCAS1")

var (
	// ErrSealed is returned when sealed data is opened without a passphrase.
	ErrSealed = errors.New("data is encrypted and no passphrase is configured")
	// ErrWrongKey is returned when authentication fails.
	ErrWrongKey = errors.New("wrong passphrase or corrupted data")
)

// Sealer encrypts and decrypts blobs. A nil *Sealer passes plaintext through.
type Sealer struct {
	passphrase []byte
}

// NewSealer returns nil for an empty passphrase.
func NewSealer(passphrase string) *Sealer {
	if passphrase == "" {
		return nil
	}
	return &Sealer{passphrase: []byte(passphrase)}
}

// IsSealed reports whether data carries the sealed header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// Seal encrypts plaintext under a fresh salt and nonce.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	if s == nil {
		return plaintext, nil
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, errors.Wrap(err, "generating salt")
	}

	gcm, err := s.aead(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Wrap(err, "generating nonce")
	}

	out := make([]byte, 0, len(magic)+saltSize+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, magic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, magic), nil
}

// Open decrypts data produced by Seal. Data without the sealed header is
// returned unchanged so an unencrypted store can be adopted.
func (s *Sealer) Open(data []byte) ([]byte, error) {
	if !IsSealed(data) {
		return data, nil
	}
	if s == nil {
		return nil, ErrSealed
	}

	rest := data[len(magic):]
	if len(rest) < saltSize {
		return nil, errors.New("ciphertext too short")
	}
	salt, rest := rest[:saltSize], rest[saltSize:]

	gcm, err := s.aead(salt)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(rest) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := rest[:nonceSize], rest[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, magic)
	if err != nil {
		return nil, ErrWrongKey
	}
	return plaintext, nil
}

func (s *Sealer) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(s.passphrase, salt, iterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "creating cipher")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "creating GCM")
	}
	return gcm, nil
}
