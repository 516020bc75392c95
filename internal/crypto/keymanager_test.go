package crypto

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	blob, err := EncryptKey(testKeyHex, "hunter2")
	if err != nil {
		t.Fatalf("EncryptKey: %v", err)
	}

	got, err := DecryptKey(blob, "hunter2")
	if err != nil {
		t.Fatalf("DecryptKey: %v", err)
	}
	if got != testKeyHex {
		t.Errorf("decrypted key = %q, want original", got)
	}
}

func TestEncryptKey_AcceptsPrefixedHex(t *testing.T) {
	blob, err := EncryptKey("0x"+testKeyHex, "pw")
	if err != nil {
		t.Fatalf("EncryptKey: %v", err)
	}
	got, err := DecryptKey(blob, "pw")
	if err != nil {
		t.Fatalf("DecryptKey: %v", err)
	}
	if got != testKeyHex {
		t.Errorf("decrypted key = %q, want unprefixed original", got)
	}
}

func TestEncryptKey_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		password string
	}{
		{name: "empty password", key: testKeyHex, password: ""},
		{name: "bad hex", key: "not-hex", password: "pw"},
		{name: "short key", key: "abcd", password: "pw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EncryptKey(tt.key, tt.password); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDecryptKey_WrongPassword(t *testing.T) {
	blob, err := EncryptKey(testKeyHex, "right")
	if err != nil {
		t.Fatalf("EncryptKey: %v", err)
	}
	if _, err := DecryptKey(blob, "wrong"); err == nil {
		t.Fatal("decryption with the wrong password succeeded")
	}
}

func TestDecryptKey_UnsupportedVersion(t *testing.T) {
	if _, err := DecryptKey([]byte(`{"version": 99}`), "pw"); err == nil {
		t.Fatal("expected error for unknown schema version")
	} else if !strings.Contains(err.Error(), "version") {
		t.Errorf("error does not mention the version: %v", err)
	}
}

func TestEncryptKey_SaltsDiffer(t *testing.T) {
	a, err := EncryptKey(testKeyHex, "pw")
	if err != nil {
		t.Fatal(err)
	}
	b, err := EncryptKey(testKeyHex, "pw")
	if err != nil {
		t.Fatal(err)
	}
	if string(a) == string(b) {
		t.Error("two encryptions of the same key produced identical blobs")
	}
}

func TestLoadKey_RawTakesPrecedence(t *testing.T) {
	got, err := LoadKey(KeyConfig{
		RawPrivateKey:    "0x" + testKeyHex,
		EncryptedKeyPath: "/does/not/exist.json",
	})
	if err != nil {
		t.Fatalf("LoadKey: %v", err)
	}
	if got != testKeyHex {
		t.Errorf("key = %q, want raw key with prefix stripped", got)
	}
}

func TestLoadKey_RawRejectsBadHex(t *testing.T) {
	if _, err := LoadKey(KeyConfig{RawPrivateKey: "zz"}); err == nil {
		t.Fatal("expected error for non-hex raw key")
	}
}

func TestLoadKey_EncryptedFile(t *testing.T) {
	blob, err := EncryptKey(testKeyHex, "pw")
	if err != nil {
		t.Fatalf("EncryptKey: %v", err)
	}
	path := filepath.Join(t.TempDir(), "key.json")
	if err := os.WriteFile(path, blob, 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadKey(KeyConfig{EncryptedKeyPath: path, KeyPassword: "pw"})
	if err != nil {
		t.Fatalf("LoadKey: %v", err)
	}
	if got != testKeyHex {
		t.Errorf("key = %q, want decrypted original", got)
	}
}

func TestLoadKey_NoSource(t *testing.T) {
	if _, err := LoadKey(KeyConfig{}); err == nil {
		t.Fatal("expected error when no key source is configured")
	}
}
