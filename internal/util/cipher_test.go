package util

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testCipher(t *testing.T, fill byte) *AESCipher {
	t.Helper()
	c, err := NewAESCipher(bytes.Repeat([]byte{fill}, DataKeySize))
	if err != nil {
		t.Fatalf("NewAESCipher: %v", err)
	}
	return c
}

func TestAESCipher_RoundTrip(t *testing.T) {
	c := testCipher(t, 1)

	for _, plain := range []string{"rent", "Payment for &lt;b&gt;dinner&lt;/b&gt;", "GROCERIES", "příliš žluťoučký kůň"} {
		sealed, err := c.Seal(plain)
		if err != nil {
			t.Fatalf("Seal(%q): %v", plain, err)
		}
		if strings.Contains(sealed, plain) {
			t.Fatalf("sealed value %q contains the plaintext", sealed)
		}
		got, err := c.Open(sealed)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if got != plain {
			t.Fatalf("Open = %q, want %q", got, plain)
		}
	}
}

func TestAESCipher_FreshNonce(t *testing.T) {
	c := testCipher(t, 1)

	a, _ := c.Seal("rent")
	b, _ := c.Seal("rent")
	if a == b {
		t.Fatal("sealing the same value twice should differ")
	}
}

func TestAESCipher_OpenRejects(t *testing.T) {
	c := testCipher(t, 1)
	sealed, err := c.Seal("rent")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	other, _ := testCipher(t, 2).Seal("rent")

	tampered := []byte(sealed)
	tampered[len(tampered)-3] ^= 0x01

	tests := []struct {
		name  string
		input string
	}{
		{"not base64", "%%%"},
		{"too short", "AAAA"},
		{"tampered", string(tampered)},
		{"other key", other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Open(tt.input); !errors.Is(err, ErrMalformedCiphertext) {
				t.Fatalf("expected ErrMalformedCiphertext, got %v", err)
			}
		})
	}
}

func TestNewAESCipher_KeySize(t *testing.T) {
	if _, err := NewAESCipher(make([]byte, 16)); err == nil {
		t.Fatal("a 16 byte key should be rejected")
	}
}

func TestLoadOrCreateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.key")

	created, err := LoadOrCreateKey(path)
	if err != nil {
		t.Fatalf("LoadOrCreateKey: %v", err)
	}
	if len(created) != DataKeySize {
		t.Fatalf("key has %d bytes", len(created))
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("key file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("key file mode = %o, want 600", perm)
	}

	loaded, err := LoadOrCreateKey(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !bytes.Equal(created, loaded) {
		t.Fatal("reloaded key differs from the created one")
	}

	short := filepath.Join(t.TempDir(), "short.key")
	if err := os.WriteFile(short, []byte("short"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrCreateKey(short); err == nil {
		t.Fatal("a truncated key file should be rejected")
	}
}
