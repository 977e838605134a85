package events

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jeffmahoney/agama/internal/logging"
)

// Handler is called for every received event. Returning an error stops Watch
// and the error is returned to its caller.
type Handler func(Event) error

// URLFromBase derives the event stream URL from the API base URL,
// e.g. http://host:3000/api becomes ws://host:3000/api/ws.
func URLFromBase(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid base URL %q: unsupported scheme %q", baseURL, u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	u.RawPath = ""
	return u.String(), nil
}

// Watch subscribes to the event stream at wsURL and calls handler for each
// event until ctx is done, the server closes the stream or handler fails.
// Cancellation and a normal close are not errors.
func Watch(ctx context.Context, wsURL string, handler Handler) error {
	logger := logging.Named("events")

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("subscribing to %s: server answered %s: %w", wsURL, resp.Status, err)
		}
		return fmt.Errorf("subscribing to %s: %w", wsURL, err)
	}
	defer func() { _ = conn.Close() }()

	logger.Debug("Subscribed to events", zap.String("url", wsURL))

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadlineSoon())
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("reading events: %w", err)
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			logger.Warn("Skipping malformed event", zap.Error(err), zap.ByteString("data", data))
			continue
		}
		logging.LogEvent(logger, "received", string(ev.Type), ev.Root, ev.Collection, ev.ResourceID)

		if err := handler(ev); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
}

// ErrStop can be returned by a Handler to end Watch without an error.
var ErrStop = errors.New("stop watching")

func deadlineSoon() time.Time {
	return time.Now().Add(time.Second)
}
