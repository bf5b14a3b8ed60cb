package ws

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(MessageTypePromote, PromotePayload{Piece: "queen"})
	if err != nil {
		t.Fatal(err)
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"promote","payload":{"piece":"queen"}}`
	if diff := cmp.Diff(want, string(raw)); diff != "" {
		t.Errorf("encoded message mismatch (-want +got):\n%s", diff)
	}

	var decoded Message
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	var payload PromotePayload
	if err := json.Unmarshal(decoded.Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Piece != "queen" {
		t.Errorf("piece = %q, want queen", payload.Piece)
	}
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage(errors.New(`bad "move"`))
	if msg.Type != MessageTypeError {
		t.Errorf("type = %q, want %q", msg.Type, MessageTypeError)
	}

	var payload ErrorPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload.Error != `bad "move"` {
		t.Errorf("error = %q", payload.Error)
	}
}

func TestNewMessageRejectsUnencodablePayload(t *testing.T) {
	if _, err := NewMessage(MessageTypeGameState, make(chan int)); err == nil {
		t.Error("encoded a channel")
	}
}
