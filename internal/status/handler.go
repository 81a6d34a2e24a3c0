package status

import (
	"context"
	"sync"
	"time"
)

// Handling is invoked with an event's payload on the handler's worker
// goroutine; its return value becomes the new rendered state.
type Handling func(ev Event, payload any) (state string)

// EventHandler serialises a stream of events for one status facet (speech,
// utterance or spinner) through a single worker goroutine, re-arming a
// reset timer after each handled event. Grounded on the reference
// implementation's queue-plus-daemon-thread StatusEventHandler.
type EventHandler struct {
	name         string
	handle       Handling
	onState      func(state string)
	resetTimeout time.Duration

	queue  chan queuedEvent
	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
}

type queuedEvent struct {
	ev      Event
	payload any
	hold    time.Duration
}

// NewEventHandler returns a handler named name, calling handle for each
// queued event and onState with the state each handled event produces
// (and with "" when the reset timer fires). Absent any
// further event, the rendered state clears after resetTimeout (see
// resetDelay, which shortens this for terminal events).
func NewEventHandler(name string, resetTimeout time.Duration, handle Handling, onState func(string)) *EventHandler {
	return &EventHandler{
		name:         name,
		handle:       handle,
		onState:      onState,
		resetTimeout: resetTimeout,
		queue:        make(chan queuedEvent, 32),
	}
}

// Start launches the worker goroutine; it runs until ctx is cancelled.
func (h *EventHandler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()
	go h.run(ctx)
}

// Stop cancels the worker goroutine.
func (h *EventHandler) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
	}
}

// Queue enqueues ev for processing with no extra display hold. Non-blocking:
// if the queue is full the event is dropped, since a backlog means the
// spoken state is already stale by the time it would be handled.
func (h *EventHandler) Queue(ev Event, payload any) {
	h.QueueWithHold(ev, payload, 0)
}

// QueueWithHold enqueues ev, payload, and paces the worker so the next
// queued item is not picked up until hold has elapsed after this one is
// rendered. Used to display a multi-piece utterance one piece at a time,
// each for its proportional share of the utterance's total duration.
func (h *EventHandler) QueueWithHold(ev Event, payload any, hold time.Duration) {
	select {
	case h.queue <- queuedEvent{ev: ev, payload: payload, hold: hold}:
	default:
	}
}

func (h *EventHandler) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.stopTimer()
			return
		case qe := <-h.queue:
			state := h.handle(qe.ev, qe.payload)
			if h.onState != nil {
				h.onState(state)
			}
			h.armReset(ctx, qe.ev)
			if qe.hold > 0 {
				select {
				case <-ctx.Done():
					h.stopTimer()
					return
				case <-time.After(qe.hold):
				}
			}
		}
	}
}

// armReset starts (or restarts) the timer that clears this handler's state
// once resetDelay elapses with no further event, giving the naturally
// following event room to supersede it first.
func (h *EventHandler) armReset(ctx context.Context, ev Event) {
	h.stopTimer()
	delay := resetDelay(ev, h.resetTimeout)
	if delay <= 0 {
		return
	}
	h.mu.Lock()
	h.timer = time.AfterFunc(delay, func() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if h.onState != nil {
			h.onState("")
		}
	})
	h.mu.Unlock()
}

func (h *EventHandler) stopTimer() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}
