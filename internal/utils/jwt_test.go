package utils

import (
	"errors"
	"testing"
	"time"
)

const (
	testAccessSecret  AccessSecret  = "access-secret-for-tests"
	testRefreshSecret RefreshSecret = "refresh-secret-for-tests"
)

func testClaims() Claims {
	return Claims{
		UserID: 42,
		Email:  "dev@example.com",
		Roles:  []string{"Member", "TeamLead"},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	at, err := NewAccessToken(testAccessSecret, testClaims(), 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if at.Token == "" {
		t.Fatal("empty token string")
	}
	if until := time.Until(at.Exp); until < 14*time.Minute || until > 16*time.Minute {
		t.Errorf("expiry %v not ~15 minutes out", at.Exp)
	}

	cl, err := VerifyAccessToken(testAccessSecret, at.Token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if cl.UserID != 42 {
		t.Errorf("UserID = %d, want 42", cl.UserID)
	}
	if cl.Email != "dev@example.com" {
		t.Errorf("Email = %q", cl.Email)
	}
	if len(cl.Roles) != 2 || cl.Roles[0] != "Member" || cl.Roles[1] != "TeamLead" {
		t.Errorf("Roles = %v", cl.Roles)
	}
}

func TestRefreshTokenCarriesSameClaims(t *testing.T) {
	rt, err := NewRefreshToken(testRefreshSecret, testClaims(), 7*24*60)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	cl, err := VerifyRefreshToken(testRefreshSecret, rt.Token)
	if err != nil {
		t.Fatalf("VerifyRefreshToken: %v", err)
	}
	if cl.UserID != 42 || cl.Email != "dev@example.com" || len(cl.Roles) != 2 {
		t.Errorf("claims = %+v", cl)
	}
}

// A token of one class must never verify against the other class's
// secret, and the rejection must be indistinguishable from any other
// invalid token.
func TestCrossClassRejection(t *testing.T) {
	at, _ := NewAccessToken(testAccessSecret, testClaims(), 15)
	rt, _ := NewRefreshToken(testRefreshSecret, testClaims(), 60)

	if _, err := VerifyRefreshToken(testRefreshSecret, at.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token passed refresh verification: err = %v", err)
	}
	if _, err := VerifyAccessToken(testAccessSecret, rt.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token passed access verification: err = %v", err)
	}
}

func TestVerifyRejections(t *testing.T) {
	expired, _ := NewAccessToken(testAccessSecret, testClaims(), -1)
	valid, _ := NewAccessToken(testAccessSecret, testClaims(), 15)

	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"expired", expired.Token},
		{"tampered", valid.Token + "x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := VerifyAccessToken(testAccessSecret, tc.raw)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestWrongSecretRejected(t *testing.T) {
	at, _ := NewAccessToken(testAccessSecret, testClaims(), 15)
	if _, err := VerifyAccessToken("some-other-secret", at.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token verified under wrong secret: err = %v", err)
	}
}
