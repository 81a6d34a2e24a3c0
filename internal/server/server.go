// Package server implements the gateway's HTTP surface: the served page
// shell, the SSE update stream, session pings, and the local/global
// callback endpoints a page's bindings point at.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ovos-htmx-gui-gateway/internal/config"
	"ovos-htmx-gui-gateway/internal/eventbus"
	"ovos-htmx-gui-gateway/internal/gui"
	"ovos-htmx-gui-gateway/internal/render"
	"ovos-htmx-gui-gateway/internal/util"
)

// Server wires the gateway's HTTP handlers to the coordinator, renderer,
// event bus and session registry.
type Server struct {
	coordinator *gui.Coordinator
	renderer    *render.Renderer
	frames      *eventbus.Bus[render.Frame]
	sessions    *eventbus.SessionRegistry
	assetsDir   string
	pingPeriod  time.Duration
}

// New returns a server ready to have Routes mounted.
func New(coordinator *gui.Coordinator, renderer *render.Renderer, frames *eventbus.Bus[render.Frame], sessions *eventbus.SessionRegistry, assetsDir string, pingPeriod time.Duration) *Server {
	return &Server{
		coordinator: coordinator,
		renderer:    renderer,
		frames:      frames,
		sessions:    sessions,
		assetsDir:   assetsDir,
		pingPeriod:  pingPeriod,
	}
}

// Routes returns the gateway's handler, middleware chain applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", securityHeaders(s.handleIndex))
	mux.HandleFunc("/updates", securityHeaders(s.handleUpdates))
	mux.HandleFunc("/ping/", securityHeaders(s.handlePing))
	mux.HandleFunc("/local-event/", securityHeaders(s.handleLocalEvent))
	mux.HandleFunc("/global-event/", securityHeaders(limitBody(s.handleGlobalEvent, 1<<16)))
	mux.Handle("/assets/", gzipMiddleware(securityHeaders(s.handleAssets)))
	return config.RequestLoggingMiddleware(mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		util.RespondNotFound(w, "not found")
		return
	}
	sessionID := newSessionID()
	_ = s.sessions.Register(r.Context(), sessionID)
	util.SetHTMLHeaders(w, "0")
	_ = util.WriteHTML(w, shellHTML(sessionID, s.pingPeriod))
}

// handleUpdates is the gateway's SSE endpoint: the browser's EventSource
// connects here and receives every frame the renderer publishes, plus a
// periodic ping so intermediaries do not time out the connection.
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		util.RespondServiceUnavailable(w, "streaming unsupported")
		return
	}
	sessionID := r.URL.Query().Get("sid")
	if sessionID == "" {
		sessionID = newSessionID()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	_ = s.sessions.Register(ctx, sessionID)
	defer func() { _ = s.sessions.Deregister(context.Background(), sessionID) }()

	frames, unsubscribe := s.frames.Subscribe()
	defer unsubscribe()

	fmt.Fprintf(w, "event: session\ndata: %s\n\n", sessionID)
	flusher.Flush()

	pingTicker := time.NewTicker(s.pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			writeFrame(w, frame)
			flusher.Flush()
		case <-pingTicker.C:
			fmt.Fprintf(w, "event: ping\ndata: {}\n\n")
			flusher.Flush()
		}
	}
}

func writeFrame(w http.ResponseWriter, frame render.Frame) {
	if frame.Name != "" {
		fmt.Fprintf(w, "event: %s\n", frame.Name)
	}
	fmt.Fprintf(w, "data: %s\n\n", frame.Data)
}

// handlePing refreshes a session's liveness timestamp; the page shell
// calls this periodically via a hidden htmx poller element.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, "/ping/")
	if sessionID == "" {
		util.RespondBadRequest(w, "missing session id")
		return
	}
	if err := s.sessions.Ping(r.Context(), sessionID); err != nil {
		util.RespondInternalError(w, "ping failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLocalEvent dispatches a page-local callback triggered by an hx-get
// request, identified by the path's trailing callback id.
func (s *Server) handleLocalEvent(w http.ResponseWriter, r *http.Request) {
	eventID := strings.TrimPrefix(r.URL.Path, "/local-event/")
	s.dispatchCallback(w, r, eventID)
}

// handleGlobalEvent dispatches a callback triggered by an hx-post request.
// It runs the handler and answers 204; it publishes no frame of its own.
func (s *Server) handleGlobalEvent(w http.ResponseWriter, r *http.Request) {
	eventID := strings.TrimPrefix(r.URL.Path, "/global-event/")
	s.dispatchCallback(w, r, eventID)
}

func (s *Server) dispatchCallback(w http.ResponseWriter, r *http.Request, eventID string) {
	if eventID == "" {
		util.RespondBadRequest(w, "missing event id")
		return
	}
	if err := r.ParseForm(); err != nil {
		util.RespondBadRequest(w, "invalid form body")
		return
	}
	params := make(map[string]string, len(r.Form))
	for k := range r.Form {
		params[k] = r.Form.Get(k)
	}

	namespace := r.URL.Query().Get("ns")
	pageID := r.URL.Query().Get("page")
	pm, ok := s.coordinator.Manager(namespace, pageID)
	if !ok {
		util.RespondNotFound(w, "unknown page")
		return
	}
	if err := pm.TriggerCallback(eventID, params); err != nil {
		util.RespondInternalError(w, "callback failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	http.StripPrefix("/assets/", http.FileServer(http.Dir(s.assetsDir))).ServeHTTP(w, r)
}

func newSessionID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func shellHTML(sessionID string, pingPeriod time.Duration) string {
	pingSeconds := int(pingPeriod / time.Second)
	if pingSeconds < 1 {
		pingSeconds = 1
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>OVOS GUI</title></head>
<body hx-ext="sse" sse-connect="/updates?sid=%s">
<div hidden hx-post="/ping/%s" hx-trigger="every %ds" hx-swap="none"></div>
<dialog id="dialog-root"></dialog>
<div id="root" sse-swap="root" hx-swap="innerHTML"></div>
</body>
</html>`, sessionID, sessionID, pingSeconds)
}
