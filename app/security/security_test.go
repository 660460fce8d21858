package security

import (
	"errors"
	"os"
	"testing"
)

func TestVaultRoundTrip(t *testing.T) {
	v := NewVault(t.TempDir())

	enc, err := v.Encrypt("s3cret")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if enc == "s3cret" {
		t.Fatal("value was not encrypted")
	}

	dec, err := v.Decrypt(enc)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if dec != "s3cret" {
		t.Errorf("got %q", dec)
	}

	info, err := os.Stat(v.KeyPath())
	if err != nil {
		t.Fatalf("key file missing: %v", err)
	}
	if info.Size() != 32 {
		t.Errorf("key size %d", info.Size())
	}
}

func TestVaultKeyIsReused(t *testing.T) {
	dir := t.TempDir()
	enc, err := NewVault(dir).Encrypt("postgres")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	dec, err := NewVault(dir).Decrypt(enc)
	if err != nil || dec != "postgres" {
		t.Fatalf("second vault could not decrypt: %q, %v", dec, err)
	}

	if _, err := NewVault(t.TempDir()).Decrypt(enc); err == nil {
		t.Error("expected a different key to fail")
	}
}

func TestDecryptOrPlain(t *testing.T) {
	v := NewVault(t.TempDir())
	if got := v.DecryptOrPlain("plain-password"); got != "plain-password" {
		t.Errorf("got %q", got)
	}
	if got := v.DecryptOrPlain(""); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestPIN(t *testing.T) {
	hash, err := HashPIN("4821")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPIN(hash, "4821") {
		t.Error("matching PIN rejected")
	}
	if CheckPIN(hash, "1111") {
		t.Error("wrong PIN accepted")
	}

	for _, bad := range []string{"", "123", "123456789", "12a4"} {
		if _, err := HashPIN(bad); !errors.Is(err, ErrInvalidPIN) {
			t.Errorf("HashPIN(%q) = %v, want ErrInvalidPIN", bad, err)
		}
	}
}
