package institutions

import (
	"context"
	"errors"
	"testing"
)

func TestServiceCreateRejectsMalformedDomain(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	for _, domain := range []string{"edu", "spaced domain.edu", "ok.e9", ""} {
		if _, err := svc.Create(ctx, "Some College", domain); !errors.Is(err, ErrInvalidDomain) {
			t.Errorf("domain %q: expected ErrInvalidDomain, got %v", domain, err)
		}
	}

	inst, err := svc.Create(ctx, "Some College", "Valid.EDU")
	if err != nil {
		t.Fatalf("valid domain: %v", err)
	}
	if inst.Domain != "valid.edu" {
		t.Fatalf("expected lowercased domain, got %q", inst.Domain)
	}
}
