package auth

import (
	"errors"
	"testing"
	"time"

	"taskmaster-api/models"
)

func testAuth() *Auth {
	return New(Config{
		Secret:      []byte("test-secret-32-bytes-long-1234567890"),
		RegisterTTL: time.Hour,
		LoginTTL:    24 * time.Hour,
	})
}

func testUser() *models.User {
	return &models.User{ID: 7, Username: "alice", Email: "alice@x.com"}
}

func TestHashAndCheckPassword(t *testing.T) {
	a := testAuth()

	hash, err := a.HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("password stored in plaintext")
	}
	if !a.CheckPassword(hash, "secret1") {
		t.Error("correct password rejected")
	}
	if a.CheckPassword(hash, "wrongpass") {
		t.Error("wrong password accepted")
	}
}

func TestHashPassword_RandomSalt(t *testing.T) {
	a := testAuth()

	first, err := a.HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := a.HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical, salt not randomized")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	a := testAuth()
	user := testUser()

	token, err := a.IssueLoginToken(user)
	if err != nil {
		t.Fatalf("IssueLoginToken: %v", err)
	}

	claims, err := a.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" || claims.Email != "alice@x.com" {
		t.Errorf("claims mismatch: %+v", claims)
	}
}

func TestRegistrationTokenShorterLived(t *testing.T) {
	a := testAuth()
	user := testUser()

	regToken, err := a.IssueRegistrationToken(user)
	if err != nil {
		t.Fatalf("IssueRegistrationToken: %v", err)
	}
	loginToken, err := a.IssueLoginToken(user)
	if err != nil {
		t.Fatalf("IssueLoginToken: %v", err)
	}

	regClaims, err := a.VerifyToken(regToken)
	if err != nil {
		t.Fatalf("VerifyToken(registration): %v", err)
	}
	loginClaims, err := a.VerifyToken(loginToken)
	if err != nil {
		t.Fatalf("VerifyToken(login): %v", err)
	}
	if !regClaims.ExpiresAt.Time.Before(loginClaims.ExpiresAt.Time) {
		t.Errorf("registration token should expire before login token: %v vs %v",
			regClaims.ExpiresAt.Time, loginClaims.ExpiresAt.Time)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	a := New(Config{
		Secret:      []byte("test-secret-32-bytes-long-1234567890"),
		RegisterTTL: -time.Minute,
		LoginTTL:    24 * time.Hour,
	})

	token, err := a.IssueRegistrationToken(testUser())
	if err != nil {
		t.Fatalf("IssueRegistrationToken: %v", err)
	}
	if _, err := a.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: want ErrInvalidToken, got %v", err)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	a := testAuth()
	other := New(Config{
		Secret:      []byte("another-secret-32-bytes-long-0987654321"),
		RegisterTTL: time.Hour,
		LoginTTL:    24 * time.Hour,
	})

	token, err := other.IssueLoginToken(testUser())
	if err != nil {
		t.Fatalf("IssueLoginToken: %v", err)
	}
	if _, err := a.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign-signed token: want ErrInvalidToken, got %v", err)
	}
}

func TestVerifyToken_Malformed(t *testing.T) {
	a := testAuth()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := a.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("VerifyToken(%q): want ErrInvalidToken, got %v", token, err)
		}
	}
}
