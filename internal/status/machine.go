package status

import (
	"context"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	defaultSpeechReset    = 6 * time.Second
	defaultUtteranceReset = 6 * time.Second
	defaultSpinnerReset   = 20 * time.Second
	maxUtterancePieceLen  = 60
)

// Speech, utterance and spinner are the three rendered facets a StatusMachine
// maintains; Render receives their combined current state.
type Render struct {
	Speech    string
	Utterance string
	Spinner   string
}

// Machine runs the three independent status handlers and republishes the
// combined state whenever any of them changes, grounded on the reference
// implementation's StatusHandler.process_event dispatch.
type Machine struct {
	speech    *EventHandler
	utterance *EventHandler
	spinner   *EventHandler

	mu     sync.Mutex
	render Render
	onRender func(Render)
}

// NewMachine builds a status machine whose combined state is delivered to
// onRender after every update.
func NewMachine(onRender func(Render)) *Machine {
	m := &Machine{onRender: onRender}
	m.speech = NewEventHandler("speech", defaultSpeechReset, m.handleSpeech, m.setSpeech)
	m.utterance = NewEventHandler("utterance", defaultUtteranceReset, m.handleUtterance, m.setUtterance)
	m.spinner = NewEventHandler("spinner", defaultSpinnerReset, m.handleSpinner, m.setSpinner)
	return m
}

// Start launches all three worker goroutines.
func (m *Machine) Start(ctx context.Context) {
	m.speech.Start(ctx)
	m.utterance.Start(ctx)
	m.spinner.Start(ctx)
}

// Stop halts all three worker goroutines.
func (m *Machine) Stop() {
	m.speech.Stop()
	m.utterance.Stop()
	m.spinner.Stop()
}

// InboundEvent is the subset of a bus message the status machine consumes.
type InboundEvent struct {
	Event      Event
	Utterance  string
	SkillID    string
	IsFallback bool
}

// Process applies the reference implementation's event policy: speak
// events go straight to the speech handler; recognizer utterance events are
// formatted, split into display-sized pieces, and routed to speech (for
// utterance_start, which is spoken back immediately) or utterance (final
// recognized text), each piece held for its proportional share of the
// utterance's total display duration; handler-complete events carrying the
// fallback skill id are downgraded to utterance-undetected; every event
// also arms the spinner per its timeout.
func (m *Machine) Process(in InboundEvent) {
	ev := in.Event
	if in.IsFallback || (ev == EventHandlerComplete && in.SkillID == UnknownSkill) {
		ev = EventUtteranceUndetected
	}

	switch ev {
	case EventSpeak, EventUtteranceStart:
		m.queueUtterance(m.speech, ev, in.Utterance)
	case EventUtterance:
		m.queueUtterance(m.utterance, ev, in.Utterance)
	default:
		m.utterance.Queue(ev, "")
	}
	m.spinner.Queue(ev, nil)
}

// queueUtterance formats text, splits it into maxUtterancePieceLen-rune
// pieces on sentence boundaries, and queues each piece on h with a hold
// proportional to its rune length among the pieces, out of
// UtteranceDuration of the formatted text's length, so the sum of the
// pieces' holds reproduces the full utterance's display time.
func (m *Machine) queueUtterance(h *EventHandler, ev Event, text string) {
	formatted := formatUtterance(text)
	if formatted == "" {
		h.Queue(ev, "")
		return
	}
	pieces := SplitUtterance(formatted)
	if len(pieces) == 0 {
		pieces = []string{formatted}
	}
	totalRunes := len([]rune(formatted))
	total := UtteranceDuration(totalRunes)
	pieceRunes := 0
	for _, piece := range pieces {
		pieceRunes += len([]rune(piece))
	}
	for _, piece := range pieces {
		share := total
		if pieceRunes > 0 {
			share = time.Duration(float64(total) * float64(len([]rune(piece))) / float64(pieceRunes))
		}
		h.QueueWithHold(ev, piece, share)
	}
}

func (m *Machine) handleSpeech(ev Event, payload any) string {
	text, _ := payload.(string)
	return text
}

func (m *Machine) handleUtterance(ev Event, payload any) string {
	text, _ := payload.(string)
	return text
}

// handleSpinner renders the spinner facet's state for ev. Utterance
// failures (explicit or downgraded from an unrecognized skill) map to the
// dedicated "failure" state rather than the raw event name, so the status
// bar can show a distinct failure indicator before fading out.
func (m *Machine) handleSpinner(ev Event, _ any) string {
	if ev == EventUtteranceUndetected {
		m.armSpinnerTimeout(ev)
		return "failure"
	}
	if spinnerTimeout(ev) <= 0 {
		return ""
	}
	m.armSpinnerTimeout(ev)
	return string(ev)
}

func (m *Machine) armSpinnerTimeout(ev Event) {
	timeout := spinnerTimeout(ev)
	if timeout <= 0 {
		return
	}
	time.AfterFunc(timeout, func() {
		m.setSpinner("")
	})
}

func (m *Machine) setSpeech(s string) {
	m.mu.Lock()
	m.render.Speech = s
	r := m.render
	m.mu.Unlock()
	m.publish(r)
}

func (m *Machine) setUtterance(s string) {
	m.mu.Lock()
	m.render.Utterance = s
	r := m.render
	m.mu.Unlock()
	m.publish(r)
}

func (m *Machine) setSpinner(s string) {
	m.mu.Lock()
	m.render.Spinner = s
	r := m.render
	m.mu.Unlock()
	m.publish(r)
}

func (m *Machine) publish(r Render) {
	if m.onRender != nil {
		m.onRender(r)
	}
}

// -----------------------------------------------------------------------
// Utterance formatting
// -----------------------------------------------------------------------

var sentenceSplitRE = regexp.MustCompile(`(?:[.!?]+\s+|[.!?]+$)`)

// formatUtterance trims surrounding whitespace and appends a period when
// the text does not already end in '.', '!' or '?'. Letter case and
// punctuation inside the text are left unchanged.
func formatUtterance(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	if !strings.ContainsAny(text[len(text)-1:], ".!?") {
		text += "."
	}
	return text
}

// SplitUtterance breaks text into pieces no longer than
// maxUtterancePieceLen runes, splitting on sentence boundaries and, inside
// a sentence that is itself too long, on whitespace rather than mid-word.
// A single word longer than the limit stays one piece.
func SplitUtterance(text string) []string {
	sentences := sentenceSplitRE.Split(text, -1)
	var pieces []string
	var current strings.Builder
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		parts := []string{sentence}
		if len([]rune(sentence)) > maxUtterancePieceLen {
			parts = strings.Fields(sentence)
		}
		for _, s := range parts {
			candidate := s
			if current.Len() > 0 {
				candidate = current.String() + " " + s
			}
			if len([]rune(candidate)) > maxUtterancePieceLen && current.Len() > 0 {
				pieces = append(pieces, current.String())
				current.Reset()
				current.WriteString(s)
			} else {
				current.Reset()
				current.WriteString(candidate)
			}
		}
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}
	return pieces
}

// UtteranceDuration estimates how long (in seconds) an utterance of the
// given rune length should be displayed, per the reference implementation's
// formula: longer utterances get diminishing additional display time.
func UtteranceDuration(runeLen int) time.Duration {
	seconds := 2 * (1 - math.Pow(0.75, float64(runeLen)/10.0))
	return time.Duration(seconds * float64(time.Second))
}
