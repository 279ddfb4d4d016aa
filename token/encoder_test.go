package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func sampleRecord() *Record {
	now := time.Now().Unix()
	return &Record{
		Token:     "eyJhbGciOiJFZERTQSJ9.payload.signature",
		UserID:    42,
		Username:  "alice",
		IssuedAt:  now,
		ExpiresAt: now + 3600,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rec := sampleRecord()

	blob, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if *got != *rec {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, rec)
	}
}

func TestEncodeRejectsInvalidRecords(t *testing.T) {
	noUser := sampleRecord()
	noUser.Username = ""
	if _, err := Encode(noUser); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for empty username, got %v", err)
	}

	longUser := sampleRecord()
	longUser.Username = strings.Repeat("a", maxUsernameLen+1)
	if _, err := Encode(longUser); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for oversize username, got %v", err)
	}

	noToken := sampleRecord()
	noToken.Token = ""
	if _, err := Encode(noToken); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for empty token, got %v", err)
	}

	if _, err := Encode(nil); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for nil record, got %v", err)
	}
}

func TestDecodeRejectsCorruptBlobs(t *testing.T) {
	blob, err := Encode(sampleRecord())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	cases := map[string][]byte{
		"empty":            {},
		"short":            {schemaVersion},
		"bad version":      append([]byte{9}, blob[1:]...),
		"truncated":        blob[:len(blob)-5],
		"trailing garbage": append(append([]byte{}, blob...), 0xFF),
	}
	for name, data := range cases {
		if _, err := Decode(data); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("%s: expected ErrCorrupt, got %v", name, err)
		}
	}
}

func TestExpired(t *testing.T) {
	rec := sampleRecord()
	now := time.Unix(rec.ExpiresAt, 0)

	if rec.Expired(now.Add(-time.Second)) {
		t.Fatal("expected record to be live before expiry")
	}
	if !rec.Expired(now) {
		t.Fatal("expected record to be expired at the expiry instant")
	}
	if !rec.Expired(now.Add(time.Second)) {
		t.Fatal("expected record to be expired after expiry")
	}
}
