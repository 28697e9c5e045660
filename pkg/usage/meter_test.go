package usage

import (
	"errors"
	"strings"
	"testing"
	"time"

	uerrors "github.com/tubetext/tubetext/internal/usecase/errors"
)

func newTestMeter() *Meter {
	return NewMeter("test-secret", 5, 30*24*time.Hour)
}

func TestAuthorizeFreshCounter(t *testing.T) {
	m := newTestMeter()

	grant, err := m.Authorize("")
	if err != nil {
		t.Fatalf("Authorize(\"\") error: %v", err)
	}
	if grant.Count != 1 {
		t.Errorf("fresh count = %d, want 1", grant.Count)
	}
	if grant.Token == "" {
		t.Error("fresh grant has no token")
	}
}

func TestAuthorizeIncrementsUpToLimit(t *testing.T) {
	m := newTestMeter()

	token := ""
	for want := 1; want <= 5; want++ {
		grant, err := m.Authorize(token)
		if err != nil {
			t.Fatalf("Authorize #%d error: %v", want, err)
		}
		if grant.Count != want {
			t.Fatalf("count = %d, want %d", grant.Count, want)
		}
		token = grant.Token
	}

	// The sixth use is over the ceiling: rejected, and no new token issued.
	grant, err := m.Authorize(token)
	if !errors.Is(err, uerrors.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if grant != nil {
		t.Fatalf("expected no grant past the ceiling, got %+v", grant)
	}
}

func TestAuthorizeTamperedTokenRejected(t *testing.T) {
	m := newTestMeter()

	grant, err := m.Authorize("")
	if err != nil {
		t.Fatalf("Authorize error: %v", err)
	}

	// Flip a byte in the payload section.
	parts := strings.Split(grant.Token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", grant.Token)
	}
	payload := []byte(parts[1])
	if payload[3] == 'A' {
		payload[3] = 'B'
	} else {
		payload[3] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	got, err := m.Authorize(tampered)
	if !errors.Is(err, uerrors.ErrUsageTokenInvalid) {
		t.Fatalf("expected ErrUsageTokenInvalid, got %v", err)
	}
	if got != nil {
		t.Fatalf("tampered token produced a grant: %+v", got)
	}
}

func TestAuthorizeForeignSignatureRejected(t *testing.T) {
	m := newTestMeter()
	other := NewMeter("different-secret", 5, 30*24*time.Hour)

	grant, err := other.Authorize("")
	if err != nil {
		t.Fatalf("Authorize error: %v", err)
	}

	if _, err := m.Authorize(grant.Token); !errors.Is(err, uerrors.ErrUsageTokenInvalid) {
		t.Fatalf("expected ErrUsageTokenInvalid for foreign signature, got %v", err)
	}
}

func TestAuthorizeExpiredTokenRejected(t *testing.T) {
	expired := NewMeter("test-secret", 5, -time.Hour)
	grant, err := expired.Authorize("")
	if err != nil {
		t.Fatalf("Authorize error: %v", err)
	}

	m := newTestMeter()
	if _, err := m.Authorize(grant.Token); !errors.Is(err, uerrors.ErrUsageTokenInvalid) {
		t.Fatalf("expected ErrUsageTokenInvalid for expired token, got %v", err)
	}
}
