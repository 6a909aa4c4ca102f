package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(constants.KeyringBackendAnonKey, "anon-key"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := Get(constants.KeyringBackendAnonKey)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != "anon-key" {
		t.Errorf("Get() = %q, want %q", got, "anon-key")
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(constants.KeyringBackendAnonKey, ""); err == nil {
		t.Error("Set() with empty value should return an error")
	}
}

func TestGetNotFound(t *testing.T) {
	gokeyring.MockInit()

	_, err := Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://tracker@localhost:5432/strivetrack"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := Delete(constants.DefaultKeyringUser); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() after delete error = %v, want %v", err, ErrNotFound)
	}
	if err := Delete(constants.DefaultKeyringUser); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestLookup(t *testing.T) {
	gokeyring.MockInit()

	if got := Lookup(constants.KeyringCloudinaryURL, "fallback"); got != "fallback" {
		t.Errorf("Lookup() = %q, want fallback", got)
	}
	_ = Set(constants.KeyringCloudinaryURL, "cloudinary://k:s@demo")
	if got := Lookup(constants.KeyringCloudinaryURL, "fallback"); got != "cloudinary://k:s@demo" {
		t.Errorf("Lookup() = %q, want stored value", got)
	}
}

func TestSigningSecretIsStable(t *testing.T) {
	gokeyring.MockInit()

	first, err := SigningSecret()
	if err != nil {
		t.Fatalf("SigningSecret() failed: %v", err)
	}
	if len(first) != 64 {
		t.Errorf("secret length = %d, want 64 hex chars", len(first))
	}

	second, err := SigningSecret()
	if err != nil {
		t.Fatalf("SigningSecret() second call failed: %v", err)
	}
	if string(first) != string(second) {
		t.Error("SigningSecret() should return the stored secret on later calls")
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false with mock keyring")
	}
}
