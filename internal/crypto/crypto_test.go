package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNewSealer(t *testing.T) {
	if NewSealer("") != nil {
		t.Error("NewSealer(\"\") should return nil")
	}
	if NewSealer("strong-passphrase-123") == nil {
		t.Error("NewSealer() = nil, want non-nil")
	}
}

func TestSealOpen(t *testing.T) {
	s := NewSealer("test-passphrase")

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "simple text", plaintext: `{"subscriptions":[]}`},
		{name: "empty", plaintext: ""},
		{name: "unicode", plaintext: "Polish Złoty, 日本円"},
		{name: "long text", plaintext: strings.Repeat("alice@example.com ", 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := s.Seal([]byte(tt.plaintext))
			if err != nil {
				t.Fatalf("Seal() error = %v", err)
			}
			if !IsSealed(sealed) {
				t.Fatal("sealed output lacks header")
			}
			if tt.plaintext != "" && bytes.Contains(sealed, []byte(tt.plaintext)) {
				t.Error("ciphertext contains plaintext")
			}

			opened, err := s.Open(sealed)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if string(opened) != tt.plaintext {
				t.Errorf("Open() = %q, want %q", opened, tt.plaintext)
			}
		})
	}
}

func TestSeal_NonDeterministic(t *testing.T) {
	s := NewSealer("test-passphrase")

	a, _ := s.Seal([]byte("same"))
	b, _ := s.Seal([]byte("same"))
	if bytes.Equal(a, b) {
		t.Error("two seals of the same plaintext should differ")
	}
}

func TestOpen_WrongKey(t *testing.T) {
	sealed, err := NewSealer("right").Seal([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewSealer("wrong").Open(sealed)
	if !errors.Is(err, ErrWrongKey) {
		t.Errorf("Open() error = %v, want ErrWrongKey", err)
	}
}

func TestOpen_Tampered(t *testing.T) {
	s := NewSealer("key")
	sealed, _ := s.Seal([]byte("secret"))
	sealed[len(sealed)-1] ^= 0xff

	if _, err := s.Open(sealed); !errors.Is(err, ErrWrongKey) {
		t.Errorf("Open() error = %v, want ErrWrongKey", err)
	}
}

func TestNilSealer(t *testing.T) {
	var s *Sealer

	out, err := s.Seal([]byte("plain"))
	if err != nil || string(out) != "plain" {
		t.Errorf("nil Seal() = %q, %v", out, err)
	}

	out, err = s.Open([]byte("plain"))
	if err != nil || string(out) != "plain" {
		t.Errorf("nil Open() = %q, %v", out, err)
	}

	sealed, _ := NewSealer("key").Seal([]byte("secret"))
	if _, err := s.Open(sealed); !errors.Is(err, ErrSealed) {
		t.Errorf("nil Open(sealed) error = %v, want ErrSealed", err)
	}
}

func TestOpen_Truncated(t *testing.T) {
	s := NewSealer("key")
	if _, err := s.Open(append([]byte{}, magic...)); err == nil {
		t.Error("expected error for truncated data")
	}
}
