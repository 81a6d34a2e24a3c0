package bus

import (
	"encoding/json"
	"testing"
)

func TestMessageRoundTripsListInsert(t *testing.T) {
	raw := `{"type":"mycroft.gui.list.insert","namespace":"home","position":0,"values":[{"url":"home-screen"}]}`
	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if msg.Type != TypeGUIListInsert {
		t.Fatalf("Type = %v, want %v", msg.Type, TypeGUIListInsert)
	}
	if msg.Namespace != "home" {
		t.Fatalf("Namespace = %q", msg.Namespace)
	}
	if len(msg.Values) != 1 {
		t.Fatalf("Values = %v", msg.Values)
	}
}

func TestMessageEncodesEventTriggered(t *testing.T) {
	msg := Message{
		Type:       TypeEventTriggered,
		EventName:  "hello-dismiss",
		Parameters: map[string]any{"source": "hello-world"},
	}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.EventName != "hello-dismiss" {
		t.Fatalf("EventName = %q", decoded.EventName)
	}
}
