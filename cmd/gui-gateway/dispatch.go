package main

import (
	"log/slog"

	"ovos-htmx-gui-gateway/internal/bus"
	"ovos-htmx-gui-gateway/internal/gui"
	"ovos-htmx-gui-gateway/internal/status"
)

// statusEventByWire maps a bus event's wire name to the status package's
// internal vocabulary, which uses the reference implementation's shorter
// names rather than the bus's namespaced ones.
var statusEventByWire = map[bus.EventType]status.Event{
	bus.EventWakeword:            status.EventWakeword,
	bus.EventRecordBegin:         status.EventRecordBegin,
	bus.EventRecordEnd:           status.EventRecordEnd,
	bus.EventUtteranceStart:      status.EventUtteranceStart,
	bus.EventUtterance:           status.EventUtterance,
	bus.EventSpeak:               status.EventSpeak,
	bus.EventAudioOutputStart:    status.EventAudioStart,
	bus.EventAudioOutputEnd:      status.EventAudioEnd,
	bus.EventHandlerStart:        status.EventHandlerStart,
	bus.EventHandlerComplete:     status.EventHandlerComplete,
	bus.EventUtteranceHandled:    status.EventUtteranceHandled,
	bus.EventUtteranceCancelled:  status.EventUtteranceCancelled,
	bus.EventUtteranceUndetected: status.EventUtteranceUndetected,
	bus.EventIntentFailure:       status.EventIntentFailure,
}

// wireBusHandlers registers the gateway's decode/dispatch table: each bus
// message type is routed to the coordinator operation or status event it
// represents.
func wireBusHandlers(client *bus.Client, coordinator *gui.Coordinator, machine *status.Machine) {
	client.Handle(bus.TypeGUIListInsert, func(msg bus.Message) {
		args := make([]gui.PageArg, 0, len(msg.Values))
		for i, v := range msg.Values {
			uri, _ := valueString(v, "url")
			pageID, _ := valueString(v, "page")
			args = append(args, gui.PageArg{
				URI:      uri,
				PageID:   pageID,
				Position: msg.Position + i,
			})
		}
		if _, err := coordinator.InsertPages(msg.Namespace, args); err != nil {
			slog.Warn("gui list insert failed", "namespace", msg.Namespace, "error", err)
		}
	})

	client.Handle(bus.TypeGUIListRemove, func(msg bus.Message) {
		ids := make([]string, 0, len(msg.Values))
		for _, v := range msg.Values {
			if id, ok := valueString(v, "page"); ok {
				ids = append(ids, id)
			}
		}
		if err := coordinator.RemovePages(msg.Namespace, ids); err != nil {
			slog.Warn("gui list remove failed", "namespace", msg.Namespace, "error", err)
		}
	})

	client.Handle(bus.TypeGUIListMove, func(msg bus.Message) {
		ids := make([]string, 0, len(msg.Values))
		for _, v := range msg.Values {
			if id, ok := valueString(v, "page"); ok {
				ids = append(ids, id)
			}
		}
		if err := coordinator.MovePages(msg.Namespace, ids, msg.To); err != nil {
			slog.Warn("gui list move failed", "namespace", msg.Namespace, "error", err)
		}
	})

	client.Handle(bus.TypeSessionSet, func(msg bus.Message) {
		pageID := coordinator.Group(msg.Namespace).GetActivePageID()
		pm, ok := coordinator.Manager(msg.Namespace, pageID)
		if !ok {
			return
		}
		if _, err := pm.UpdateData(msg.Property, msg.Parameters[msg.Property], nil); err != nil {
			slog.Debug("session set had no binding", "namespace", msg.Namespace, "property", msg.Property)
		}
	})

	client.Handle(bus.TypeSessionDelete, func(msg bus.Message) {
		if err := coordinator.DeleteState(msg.Namespace, msg.Property); err != nil {
			slog.Warn("session delete failed", "namespace", msg.Namespace, "error", err)
		}
	})

	client.Handle(bus.TypeSessionListInsert, func(msg bus.Message) {
		coordinator.InsertNamespace(msg.Namespace)
	})

	client.Handle(bus.TypeSessionListRemove, func(msg bus.Message) {
		coordinator.RemoveNamespace(msg.Namespace)
	})

	for _, t := range []bus.MessageType{bus.TypeSessionListUpdate, bus.TypeSessionListMove} {
		client.Handle(t, func(msg bus.Message) {
			slog.Warn("unsupported session list message", "type", msg.Type, "namespace", msg.Namespace)
		})
	}

	// mycroft.events.triggered is a three-way fork: page focus changes go
	// straight to the coordinator, recognizer/skill lifecycle events drive
	// the status machine, and everything else is stored as page-scoped
	// state for the active page's own callbacks to read.
	client.Handle(bus.TypeEventTriggered, func(msg bus.Message) {
		wire := bus.EventType(msg.EventName)

		if wire == bus.EventPageGainedFocus {
			if idx, ok := valueInt(msg.Parameters, "page"); ok {
				if err := coordinator.ShowIndex(msg.Namespace, idx); err != nil {
					slog.Warn("page focus show failed", "namespace", msg.Namespace, "error", err)
				}
			}
			return
		}

		if ev, ok := statusEventByWire[wire]; ok {
			in := status.InboundEvent{Event: ev}
			if text, ok := valueString(msg.Parameters, "utterance"); ok {
				in.Utterance = text
			}
			if skill, ok := valueString(msg.Parameters, "skill_id"); ok {
				in.SkillID = skill
				in.IsFallback = skill == status.UnknownSkill
			}
			machine.Process(in)
			return
		}

		if err := coordinator.UpdateState(msg.Namespace, msg.EventName); err != nil {
			slog.Debug("event state update had no active page", "namespace", msg.Namespace, "event", msg.EventName)
		}
	})
}

// valueString extracts a string field from a bus value payload, which
// arrives as either a map[string]any (the common case) or, for simple
// key/value lookups against Parameters, a map[string]any directly.
func valueString(v any, key string) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := m[key].(string)
	return s, ok
}

// valueInt extracts an integer field from a bus value payload. JSON numbers
// decode as float64, so that is the only numeric type handled besides int.
func valueInt(v any, key string) (int, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return 0, false
	}
	switch n := m[key].(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
