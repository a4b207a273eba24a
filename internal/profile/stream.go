package profile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Stream subscribes to a user's record over the Realtime Database REST
// streaming protocol (text/event-stream). Each emitted Snapshot is a full
// replacement of the cached record; partial server updates trigger a re-fetch
// instead of a client-side merge.
type Stream struct {
	DatabaseURL string
	HTTP        *http.Client
}

// Subscribe opens one stream for the given identity. The returned channel is
// closed when cancel is called, ctx ends, or the server drops the stream.
func (s *Stream) Subscribe(ctx context.Context, uid, idToken string) (<-chan Snapshot, func(), error) {
	if s.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("profile stream: database url not configured")
	}
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.refURL(uid, idToken), nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	client := s.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, nil, fmt.Errorf("profile stream: status %d", resp.StatusCode)
	}

	ch := make(chan Snapshot, 1)
	go func() {
		defer close(ch)
		defer resp.Body.Close()
		s.consume(ctx, resp.Body, uid, idToken, func(snap Snapshot) {
			select {
			case ch <- snap:
			case <-ctx.Done():
			}
		})
	}()
	return ch, cancel, nil
}

func (s *Stream) refURL(uid, idToken string) string {
	return fmt.Sprintf("%s/users/%s.json?auth=%s",
		strings.TrimRight(s.DatabaseURL, "/"), uid, idToken)
}

// consume reads SSE frames until the body ends. put at the root replaces the
// record in place; anything narrower re-fetches the whole record so consumers
// only ever see full snapshots.
func (s *Stream) consume(ctx context.Context, body io.Reader, uid, idToken string, emit func(Snapshot)) {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var event, data string
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		case line == "":
			if event == "" {
				continue
			}
			snap, terminal := s.handleFrame(ctx, event, data, uid, idToken)
			if snap != nil {
				emit(*snap)
			}
			if terminal {
				return
			}
			event, data = "", ""
		}
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		emit(Snapshot{Err: fmt.Errorf("profile stream read: %w", err)})
	}
}

func (s *Stream) handleFrame(ctx context.Context, event, data, uid, idToken string) (snap *Snapshot, terminal bool) {
	switch event {
	case "keep-alive":
		return nil, false
	case "cancel", "auth_revoked":
		return &Snapshot{Err: fmt.Errorf("profile stream: %s", event)}, true
	case "put":
		var frame struct {
			Path string          `json:"path"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal([]byte(data), &frame); err != nil {
			return &Snapshot{Err: fmt.Errorf("profile stream decode: %w", err)}, false
		}
		if frame.Path == "/" {
			return decodeRecord(frame.Data), false
		}
		// narrower put; re-read the whole record
		return s.fetch(ctx, uid, idToken), false
	case "patch":
		// no client-side merging; re-read the whole record
		return s.fetch(ctx, uid, idToken), false
	default:
		return nil, false
	}
}

// fetch does a one-shot read of the record, used wherever the stream delivered
// less than the full document.
func (s *Stream) fetch(ctx context.Context, uid, idToken string) *Snapshot {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.refURL(uid, idToken), nil)
	if err != nil {
		return &Snapshot{Err: err}
	}
	client := s.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return &Snapshot{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &Snapshot{Err: fmt.Errorf("profile fetch: status %d", resp.StatusCode)}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Snapshot{Err: err}
	}
	return decodeRecord(b)
}

func decodeRecord(raw json.RawMessage) *Snapshot {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &Snapshot{} // no record
	}
	var p Profile
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return &Snapshot{Err: fmt.Errorf("profile decode: %w", err)}
	}
	return &Snapshot{Profile: &p}
}
