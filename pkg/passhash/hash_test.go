package passhash

import (
	"context"
	"testing"
)

func TestNewHasher_RejectsLowCost(t *testing.T) {
	if _, err := NewHasher(9, 1); err != ErrCostTooLow {
		t.Errorf("expected ErrCostTooLow, got %v", err)
	}
}

func TestHashAndVerify_RoundTrip(t *testing.T) {
	h, err := NewHasher(MinCost, 2)
	if err != nil {
		t.Fatalf("failed to build hasher: %v", err)
	}
	defer h.Close()

	ctx := context.Background()
	hash, err := h.Hash(ctx, "correctHorseBatteryStaple")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}

	ok, err := h.Verify(ctx, "correctHorseBatteryStaple", hash)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Error("expected correct password to verify")
	}

	ok, err = h.Verify(ctx, "wrongPassword", hash)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Error("expected wrong password to fail verification")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	h, err := NewHasher(MinCost, 1)
	if err != nil {
		t.Fatalf("failed to build hasher: %v", err)
	}
	defer h.Close()

	ok, err := h.Verify(context.Background(), "password", "not-a-bcrypt-hash")
	if ok {
		t.Error("expected malformed hash to not verify")
	}
	if err != nil {
		t.Errorf("expected malformed hash to report false with no error, got %v", err)
	}
}

func TestHash_DifferentSaltsPerCall(t *testing.T) {
	h, err := NewHasher(MinCost, 1)
	if err != nil {
		t.Fatalf("failed to build hasher: %v", err)
	}
	defer h.Close()

	ctx := context.Background()
	hash1, _ := h.Hash(ctx, "samePassword")
	hash2, _ := h.Hash(ctx, "samePassword")

	if hash1 == hash2 {
		t.Error("expected different hashes for the same password (different salts)")
	}
}
