package password

import "testing"

func TestHashAndCompare(t *testing.T) {
	digest, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if digest == "correct horse battery staple" {
		t.Fatal("digest must not equal the plaintext")
	}

	if !Compare("correct horse battery staple", digest) {
		t.Error("expected matching password to compare true")
	}
	if Compare("wrong password", digest) {
		t.Error("expected mismatched password to compare false")
	}
}
