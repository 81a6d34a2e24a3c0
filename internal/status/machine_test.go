package status

import (
	"testing"
	"time"
)

func TestFormatUtteranceAddsTerminalPunctuation(t *testing.T) {
	got := formatUtterance("turn on the lights")
	if got != "turn on the lights." {
		t.Fatalf("formatUtterance() = %q", got)
	}
}

func TestFormatUtteranceKeepsExistingPunctuation(t *testing.T) {
	got := formatUtterance("is it raining?")
	if got != "is it raining?" {
		t.Fatalf("formatUtterance() = %q", got)
	}
}

func TestSplitUtteranceRespectsMaxLength(t *testing.T) {
	long := "This is the first sentence here. This is the second sentence which is also fairly long. And a third one."
	pieces := SplitUtterance(long)
	for _, p := range pieces {
		if len([]rune(p)) > maxUtterancePieceLen {
			t.Fatalf("piece %q exceeds max length %d", p, maxUtterancePieceLen)
		}
	}
	if len(pieces) < 2 {
		t.Fatalf("expected the long utterance to split into multiple pieces, got %v", pieces)
	}
}

func TestUtteranceDurationGrowsSublinearly(t *testing.T) {
	short := UtteranceDuration(10)
	long := UtteranceDuration(100)
	if long <= short {
		t.Fatalf("expected longer utterances to get more display time: short=%v long=%v", short, long)
	}
	if long >= 2*time.Second {
		t.Fatalf("duration should asymptote below 2s, got %v", long)
	}
}

func TestQueueUtteranceSplitsAndPacesProportionally(t *testing.T) {
	m := NewMachine(func(Render) {})
	long := "This is the first sentence here. This is the second sentence which is also fairly long. And a third one."

	m.queueUtterance(m.utterance, EventUtterance, long)

	formatted := formatUtterance(long)
	wantPieces := SplitUtterance(formatted)
	totalRunes := len([]rune(formatted))
	wantTotal := UtteranceDuration(totalRunes)

	var gotTotal time.Duration
	for i := 0; i < len(wantPieces); i++ {
		select {
		case qe := <-m.utterance.queue:
			piece, _ := qe.payload.(string)
			if piece != wantPieces[i] {
				t.Fatalf("piece %d = %q, want %q", i, piece, wantPieces[i])
			}
			gotTotal += qe.hold
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for piece %d", i)
		}
	}
	if diff := gotTotal - wantTotal; diff < -time.Millisecond || diff > time.Millisecond {
		t.Fatalf("sum of piece holds = %v, want ~%v", gotTotal, wantTotal)
	}
}

func TestHandleSpinnerMapsUndetectedToFailure(t *testing.T) {
	m := NewMachine(func(Render) {})
	if got := m.handleSpinner(EventUtteranceUndetected, nil); got != "failure" {
		t.Fatalf("handleSpinner(undetected) = %q, want %q", got, "failure")
	}
	if got := spinnerTimeout(EventUtteranceUndetected); got != 5*time.Second {
		t.Fatalf("spinnerTimeout(undetected) = %v, want 5s", got)
	}
}

func TestSpinnerClassMapping(t *testing.T) {
	cases := map[string]string{
		"":         "spinner fade-out",
		"failure":  "spinner failure",
		"wakeword": "spinner active wakeword",
	}
	for state, want := range cases {
		if got := SpinnerClass(state); got != want {
			t.Fatalf("SpinnerClass(%q) = %q, want %q", state, got, want)
		}
	}
}

func TestResetDelayShortensTerminalEvents(t *testing.T) {
	if got := resetDelay(EventUtteranceHandled, 6*time.Second); got != terminalResetDelay {
		t.Fatalf("resetDelay(terminal) = %v, want %v", got, terminalResetDelay)
	}
	if got := resetDelay(EventWakeword, 6*time.Second); got != 6*time.Second {
		t.Fatalf("resetDelay(non-terminal) = %v, want fallback", got)
	}
}

func TestUnknownSkillDowngradesToUndetected(t *testing.T) {
	var renders []Render
	m := NewMachine(func(r Render) { renders = append(renders, r) })

	m.Process(InboundEvent{Event: EventHandlerComplete, SkillID: UnknownSkill})

	// The utterance handler should have been queued with the downgraded
	// event, not the raw handler-complete event.
	select {
	case qe := <-m.utterance.queue:
		if qe.ev != EventUtteranceUndetected {
			t.Fatalf("queued event = %v, want %v", qe.ev, EventUtteranceUndetected)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for queued event")
	}
}
