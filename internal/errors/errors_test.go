package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("something went wrong"), expected: "Error: something went wrong"},
		{name: "sentinel", err: NotFoundf("goal %s", "g1"), expected: "Error: not found: goal g1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s", "config")
	if got != "Error: failed to load config" {
		t.Errorf("Formatf() = %q, want %q", got, "Error: failed to load config")
	}
}

func TestSentinelClassification(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		notFound     bool
		precondition bool
		invalid      bool
	}{
		{name: "not found", err: NotFoundf("item %s", "x"), notFound: true},
		{name: "precondition", err: PreconditionFailedf("insufficient balance: have %d, need %d", 1, 2), precondition: true},
		{name: "invalid", err: InvalidInputf("bad date %q", "2024-13-01"), invalid: true},
		{name: "wrapped twice", err: fmt.Errorf("purchase: %w", PreconditionFailedf("out of stock")), precondition: true},
		{name: "plain", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := IsPreconditionFailed(tt.err); got != tt.precondition {
				t.Errorf("IsPreconditionFailed() = %v, want %v", got, tt.precondition)
			}
			if got := IsInvalidInput(tt.err); got != tt.invalid {
				t.Errorf("IsInvalidInput() = %v, want %v", got, tt.invalid)
			}
		})
	}
}
