package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/me/blogfront/internal/guard"
	"github.com/me/blogfront/pkg/model"
)

const heartbeatInterval = 15 * time.Second

// Protected areas, keyed by the name pages pass to /session/events.
var (
	areaAdmin  = guard.Roles(model.RoleAdmin, model.RoleEditor)
	areaUsers  = guard.Roles(model.RoleAdmin)
	areaEditor = guard.Roles(model.RoleEditor)
)

var areaRequirements = map[string]guard.Requirement{
	"admin":  areaAdmin,
	"users":  areaUsers,
	"editor": areaEditor,
}

// eventsURL is the stream a protected page subscribes to.
func eventsURL(area, path string) string {
	q := url.Values{"area": {area}, "path": {path}}
	return "/session/events?" + q.Encode()
}

// HandleSessionEvents streams access decisions for an open protected page.
// The page is told to navigate away as soon as its session stops qualifying,
// including when another tab logs out or the API rejects the credential.
// GET /session/events?area=admin&path=/admin/blogs
func (ui *UI) HandleSessionEvents(w http.ResponseWriter, r *http.Request) {
	area := r.URL.Query().Get("area")
	req, ok := areaRequirements[area]
	if !ok {
		http.Error(w, "unknown area", http.StatusBadRequest)
		return
	}
	path := r.URL.Query().Get("path")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	s := ui.guard.StoreFor(r)
	if s == nil {
		d := ui.guard.Resolve(r.Context(), nil, req, path)
		_ = sendDecision(w, flusher, d)
		return
	}

	decisions := ui.guard.Watch(r.Context(), s, req, path)

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case d, ok := <-decisions:
			if !ok {
				return
			}
			if err := sendDecision(w, flusher, d); err != nil {
				ui.logger.Debug("sse client disconnected", "session", s.ID(), "error", err)
				return
			}
			if !d.Allowed() {
				ui.logger.Debug("sse redirect", "session", s.ID(), "area", area, "decision", d.Kind.String())
				return
			}
		case <-ticker.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}

func sendDecision(w http.ResponseWriter, flusher http.Flusher, d guard.Decision) error {
	if d.Allowed() {
		return sendSSEEvent(w, flusher, "authorized", map[string]string{"kind": d.Kind.String()})
	}
	return sendSSEEvent(w, flusher, "redirect", map[string]string{
		"kind":     d.Kind.String(),
		"location": d.Location(),
	})
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData)
	if err != nil {
		return err
	}

	flusher.Flush()
	return nil
}
