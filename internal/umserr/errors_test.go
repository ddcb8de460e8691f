package umserr

import (
	"errors"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := EvidenceRequired("missing evidenceEventIds", nil)
	if !errors.Is(err, Sentinel(CodeEvidenceRequired)) {
		t.Fatalf("expected errors.Is to match on code")
	}
	if errors.Is(err, Sentinel(CodeNotFound)) {
		t.Fatalf("expected errors.Is not to match a different code")
	}
}

func TestToEnvelopePreservesTaggedError(t *testing.T) {
	err := PayloadLimit("too big", map[string]any{"bytes": 100})
	env := ToEnvelope(err)
	if env.Code != CodePayloadLimit || env.Message != "too big" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Details["bytes"] != 100 {
		t.Fatalf("expected details to survive, got %+v", env.Details)
	}
}

func TestToEnvelopeWrapsPlainError(t *testing.T) {
	env := ToEnvelope(errors.New("boom"))
	if env.Code != CodeValidationFailed || env.Message != "boom" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestUnsupportedOperationMessage(t *testing.T) {
	err := UnsupportedOperation("frobnicate")
	if err.Message != "Unsupported operation" {
		t.Fatalf("unexpected message: %s", err.Message)
	}
	if err.Code != CodeValidationFailed {
		t.Fatalf("unexpected code: %s", err.Code)
	}
}
