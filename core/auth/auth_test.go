package auth

import (
	"errors"
	"testing"
	"time"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("qweasd2417")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "qweasd2417" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !CheckPasswordHash("qweasd2417", hash) {
		t.Error("correct password must verify")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password must not verify")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	token, err := GenerateToken(42, "alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected userID 42, got %d", claims.UserID)
	}
	if claims.Name != "alice" {
		t.Errorf("expected name alice, got %s", claims.Name)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ParseToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("ParseToken(%q) = %v, want ErrInvalidToken", token, err)
		}
	}
}
