package stream

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteSSE drains events onto w as server-sent events, flushing each frame.
// It returns once the channel closes or the client disconnects.
func WriteSSE(w http.ResponseWriter, r *http.Request, events <-chan Event) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("response writer does not support streaming")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return nil
		case e, open := <-events:
			if !open {
				return nil
			}
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("marshal %s event: %w", e.Type, err)
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data); err != nil {
				return err
			}
			flusher.Flush()
		}
	}
}
