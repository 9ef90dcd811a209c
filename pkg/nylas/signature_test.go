package nylas

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyHMAC(t *testing.T) {
	secret := "topsecret"
	body := []byte(`{"type":"notetaker.media"}`)

	if !VerifyHMAC(secret, body, sign(secret, body)) {
		t.Error("expected valid signature to verify")
	}
	if VerifyHMAC(secret, body, sign("wrong", body)) {
		t.Error("expected signature from wrong secret to fail")
	}
	if VerifyHMAC(secret, []byte("tampered"), sign(secret, body)) {
		t.Error("expected signature over different body to fail")
	}
	if VerifyHMAC(secret, body, "") {
		t.Error("expected empty signature to fail")
	}
}
