package auth

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("open sesame")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hash == "open sesame" {
		t.Fatal("hash must not equal the plaintext")
	}

	testutil.AssertEqual(t, "correct password", VerifyPassword(hash, "open sesame"), true)
	testutil.AssertEqual(t, "wrong password", VerifyPassword(hash, "open seed"), false)
	testutil.AssertEqual(t, "garbage hash", VerifyPassword("not-a-hash", "open sesame"), false)
}
