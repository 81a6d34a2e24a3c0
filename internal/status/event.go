// Package status implements the status-bar state machine: three
// independent handlers (speech, utterance, spinner) that each debounce a
// stream of bus events into a single rendered state, reset after a
// per-event-type timeout. Grounded on the reference implementation's
// status_handler module.
package status

import "time"

// Event identifies a status-affecting occurrence on the bus.
type Event string

const (
	EventWakeword       Event = "wakeword"
	EventRecordBegin    Event = "record_begin"
	EventRecordEnd      Event = "record_end"
	EventUtteranceStart Event = "utterance_start"
	EventUtterance      Event = "utterance"
	EventSpeak          Event = "speak"
	EventAudioStart     Event = "audio_output_start"
	EventAudioEnd       Event = "audio_output_end"
	EventHandlerStart   Event = "handler_start"
	EventHandlerComplete Event = "handler_complete"
	EventUtteranceHandled Event = "utterance_handled"
	EventUtteranceCancelled Event = "utterance_cancelled"
	EventUtteranceUndetected Event = "utterance_undetected"
	EventIntentFailure  Event = "complete_intent_failure"
)

// resetEventMap maps each event to the status event that should clear it,
// mirroring the reference implementation's RESET_EVENT_MAP: most handling
// events are cleared by the matching "end" event, and a handful map to
// themselves since no corresponding end event exists; resetDelay clears
// those after terminalResetDelay.
var resetEventMap = map[Event]Event{
	EventWakeword:            EventRecordBegin,
	EventRecordBegin:         EventRecordEnd,
	EventRecordEnd:           EventUtteranceStart,
	EventUtteranceStart:      EventUtterance,
	EventAudioStart:          EventAudioEnd,
	EventHandlerStart:        EventHandlerComplete,
	EventUtteranceHandled:    EventUtteranceHandled,
	EventUtteranceCancelled:  EventUtteranceCancelled,
	EventUtteranceUndetected: EventUtteranceUndetected,
	EventIntentFailure:       EventIntentFailure,
}

// UnknownSkill is the fallback skill id substituted when a handler-complete
// event carries no real skill id, signalling the utterance went unhandled.
const UnknownSkill = "skill-ovos-fallback-unknown.openvoiceos"

// spinnerTimeout returns how long the spinner should display for event,
// matching the reference implementation's per-event timeout table.
func spinnerTimeout(ev Event) time.Duration {
	switch ev {
	case EventWakeword:
		return 20 * time.Second
	case EventHandlerStart, EventAudioStart:
		return 60 * time.Second
	case EventAudioEnd:
		return 10 * time.Second
	case EventHandlerComplete, EventUtteranceHandled:
		return 8 * time.Second
	case EventUtteranceCancelled, EventUtteranceUndetected:
		return 5 * time.Second
	default:
		return 0
	}
}

// terminalResetDelay is how quickly a terminal event's rendered state
// clears: terminal events are self-mapped in resetEventMap (no further bus
// event naturally supersedes them), so there is no reason to hold the
// handler's full reset timeout before clearing.
const terminalResetDelay = 1 * time.Second

// resetDelay returns how long a handler should wait, after ev, before
// clearing its rendered state absent any further event. Events that
// resetEventMap maps to themselves are terminal: they clear quickly.
// Everything else falls back to the handler's configured reset timeout,
// giving the naturally-following event (e.g. wakeword -> record_begin)
// time to arrive and supersede it instead.
func resetDelay(ev Event, fallback time.Duration) time.Duration {
	if next, ok := resetEventMap[ev]; ok && next == ev {
		return terminalResetDelay
	}
	return fallback
}

// SpinnerClass maps the spinner facet's rendered state to the CSS class
// the status bar's spinner element carries, so the client only ever needs
// to swap the element's outer HTML to reflect a new state.
func SpinnerClass(state string) string {
	switch state {
	case "":
		return "spinner fade-out"
	case "failure":
		return "spinner failure"
	default:
		return "spinner active " + state
	}
}
