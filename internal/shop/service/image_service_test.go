package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestDecodeBase64PayloadStripsHeader(t *testing.T) {
	payload := []byte("fake png bytes")
	encoded := base64.StdEncoding.EncodeToString(payload)

	cases := []struct {
		name string
		in   string
	}{
		{"bare payload", encoded},
		{"data uri header", "data:image/png;base64," + encoded},
		{"mime only header", "image/png;base64," + encoded},
	}

	for _, tc := range cases {
		decoded, err := decodeBase64Payload(tc.in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !bytes.Equal(decoded, payload) {
			t.Fatalf("%s: decoded %q, want %q", tc.name, decoded, payload)
		}
	}
}

func TestDecodeBase64PayloadMalformed(t *testing.T) {
	if _, err := decodeBase64Payload("data:image/png;base64,!!!not-base64!!!"); err == nil {
		t.Fatal("expected decode error for malformed payload")
	}
}

// A reader consumed to EOF must be rewound before ingestion so the full
// content is read again.
func TestRewindConsumedReader(t *testing.T) {
	content := []byte("front design content")
	r := bytes.NewReader(content)

	// Consume the stream entirely
	if _, err := io.ReadAll(r); err != nil {
		t.Fatalf("consume reader: %v", err)
	}

	if err := rewind(r); err != nil {
		t.Fatalf("rewind: %v", err)
	}

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read after rewind: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("after rewind got %q, want %q", got, content)
	}
}

func TestObjectNameCollisionResistant(t *testing.T) {
	a := objectName("front")
	b := objectName("front")

	if a == b {
		t.Fatalf("expected unique object names, got %q twice", a)
	}
	if !strings.HasPrefix(a, "order_designs/front_") {
		t.Fatalf("unexpected object name %q", a)
	}
	if !strings.HasSuffix(a, ".png") {
		t.Fatalf("expected .png extension, got %q", a)
	}
}

// Malformed base64 must not produce an error: the caller's record creation
// has to survive image trouble.
func TestIngestBase64MalformedSwallowed(t *testing.T) {
	svc := NewImageService(nil, "test-bucket", zap.NewNop())

	stored, err := svc.IngestBase64(context.Background(), "image/png;base64,%%%broken%%%", "front")
	if err != nil {
		t.Fatalf("expected nil error for malformed base64, got %v", err)
	}
	if stored != nil {
		t.Fatalf("expected no stored image, got %+v", stored)
	}
}

func TestIngestBase64EmptyInput(t *testing.T) {
	svc := NewImageService(nil, "test-bucket", zap.NewNop())

	stored, err := svc.IngestBase64(context.Background(), "", "back")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != nil {
		t.Fatalf("expected no stored image for empty input, got %+v", stored)
	}
}
