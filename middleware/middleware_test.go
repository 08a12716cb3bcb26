package middleware

import (
	"testing"
)

func TestJWTRoundTrip(t *testing.T) {
	SetSecret("unit-test-secret")

	token, err := GenerateJWT(7, "admin", "admin")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 7 || claims.Username != "admin" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerifyJWTRejectsGarbage(t *testing.T) {
	SetSecret("unit-test-secret")

	if _, err := VerifyJWT("not.a.token"); err == nil {
		t.Error("garbage token verified")
	}
}

func TestVerifyJWTRejectsForeignSecret(t *testing.T) {
	SetSecret("secret-a")
	token, err := GenerateJWT(1, "admin", "admin")
	if err != nil {
		t.Fatal(err)
	}

	SetSecret("secret-b")
	if _, err := VerifyJWT(token); err == nil {
		t.Error("token signed with another secret verified")
	}
	SetSecret("secret-a")
	if _, err := VerifyJWT(token); err != nil {
		t.Errorf("token stopped verifying with its own secret: %v", err)
	}
}
