package utils

import (
	"strings"
	"testing"
)

func TestGenerateOrderNumber(t *testing.T) {
	a, b := GenerateOrderNumber(), GenerateOrderNumber()
	if !strings.HasPrefix(a, "ORD-") || len(a) != 12 {
		t.Fatalf("unexpected order number %q", a)
	}
	if a == b {
		t.Fatal("order numbers should differ")
	}
}

func TestGenerateBranchCode(t *testing.T) {
	code := GenerateBranchCode("East Legon")
	if !strings.HasPrefix(code, "EAST-") {
		t.Fatalf("unexpected code %q", code)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "s3cret!") || CheckPassword(hash, "wrong") {
		t.Fatal("bcrypt check mismatch")
	}
}
