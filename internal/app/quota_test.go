package app

import (
	"context"
	"errors"
	"testing"
)

func TestQuotaGateCheck(t *testing.T) {
	tests := []struct {
		name          string
		count         int
		max           int
		wantAllowed   bool
		wantRemaining int
	}{
		{"empty dataset", 0, 50, true, 50},
		{"one slot left", 49, 50, true, 1},
		{"at quota", 50, 50, false, 0},
		{"over quota", 60, 50, false, -10},
		{"zero quota never allows", 0, 0, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewQuotaGate(&fakeIndex{count: tt.count})
			status, err := gate.Check(context.Background(), testCredential(tt.max))
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if status.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", status.Allowed, tt.wantAllowed)
			}
			if status.Remaining != tt.wantRemaining {
				t.Errorf("Remaining = %d, want %d", status.Remaining, tt.wantRemaining)
			}
			if status.Count != tt.count || status.Max != tt.max {
				t.Errorf("Count/Max = %d/%d, want %d/%d", status.Count, status.Max, tt.count, tt.max)
			}
		})
	}
}

// An unreachable indexing service must never be read as "quota available".
func TestQuotaGateFailsClosed(t *testing.T) {
	gate := NewQuotaGate(&fakeIndex{countErr: errUpstreamDown})

	status, err := gate.Check(context.Background(), testCredential(50))
	if err == nil {
		t.Fatal("Check succeeded against a down indexing service")
	}
	if !errors.Is(err, errUpstreamDown) {
		t.Errorf("error %v does not wrap the upstream failure", err)
	}
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("error %v is not classified as ErrUpstream", err)
	}
	if status.Allowed {
		t.Error("count failure reported as allowed")
	}
}

func TestQuotaGateCountsFresh(t *testing.T) {
	index := &fakeIndex{count: 10}
	gate := NewQuotaGate(index)
	cred := testCredential(50)

	if _, err := gate.Check(context.Background(), cred); err != nil {
		t.Fatalf("first check: %v", err)
	}
	index.count = 50
	status, err := gate.Check(context.Background(), cred)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if status.Allowed {
		t.Error("second check served a stale count")
	}
	if index.countCalls != 2 {
		t.Errorf("countCalls = %d, want one live count per check", index.countCalls)
	}
}
