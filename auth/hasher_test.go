package auth

import (
	"bytes"
	"context"
	"testing"
)

func TestDeriveIsDeterministic(t *testing.T) {
	ctx := context.Background()
	salt, err := NewSalt(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(salt) < 12 {
		t.Fatalf("salt too short: %v bytes", len(salt))
	}
	first, err := Derive(ctx, "Str0ng!Passw0rd", salt)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Derive(ctx, "Str0ng!Passw0rd", salt)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("same password and salt should derive the same key")
	}
	if len(first) != kdfKeyLen {
		t.Fatalf("derived key should have %v bytes, got %v", kdfKeyLen, len(first))
	}
}

func TestDeriveSeparatesPasswords(t *testing.T) {
	ctx := context.Background()
	salt, err := NewSalt(nil)
	if err != nil {
		t.Fatal(err)
	}
	first, err := Derive(ctx, "Str0ng!Passw0rd", salt)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Derive(ctx, "0ther!Passw0rd", salt)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(first, second) {
		t.Fatal("different passwords should not derive the same key")
	}
}

func TestDeriveHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Derive(ctx, "Str0ng!Passw0rd", []byte("0123456789ab"))
	if err == nil {
		t.Fatal("derive on a cancelled context should release the caller")
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	ctx := context.Background()
	salt, err := NewSalt(nil)
	if err != nil {
		t.Fatal(err)
	}
	key, err := Derive(ctx, "Str0ng!Passw0rd", salt)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := Verify(ctx, nil, "Str0ng!Passw0rd", key, salt)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("the password that derived the key should verify against it")
	}
	ok, err = Verify(ctx, nil, "Wr0ng!Passw0rd", key, salt)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("a different password should not verify")
	}
}

func TestVerifyBindsSalt(t *testing.T) {
	ctx := context.Background()
	salt, err := NewSalt(nil)
	if err != nil {
		t.Fatal(err)
	}
	otherSalt, err := NewSalt(nil)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(salt, otherSalt) {
		t.Fatal("two fresh salts should not collide")
	}
	key, err := Derive(ctx, "Str0ng!Passw0rd", salt)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := Verify(ctx, nil, "Str0ng!Passw0rd", key, otherSalt)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("a key derived under one salt should not verify under another")
	}
}
