package widget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/shopassist/internal/chat"
	"github.com/ziadkadry99/shopassist/internal/logging"
	"github.com/ziadkadry99/shopassist/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	// outboxSize bounds frames queued for a slow client.
	outboxSize = 64
	// closeWait bounds how long a reset frame may take to flush.
	closeWait = time.Second
)

// handleSocket streams a session's events and accepts actions as frames.
// The first frame sent is a snapshot of the session.
func (wg *Widget) handleSocket(w http.ResponseWriter, r *http.Request) {
	sid, err := session.Parse(r.URL.Query().Get("session_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := wg.manager.Open(r.Context(), sid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log := logging.FromContext(r.Context()).WithField("session_id", string(sid))
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("widget: websocket upgrade")
		return
	}
	defer conn.Close()

	out := make(chan socketFrame, outboxSize)
	done := make(chan struct{})
	defer close(done)

	send := func(f socketFrame) {
		select {
		case <-done:
		case out <- f:
		default:
			log.WithField("frame", f.Type).Warn("widget: client too slow, dropping frame")
		}
	}

	flushed := make(chan struct{})
	go func() {
		defer close(flushed)
		writeFrames(conn, out, done, log)
	}()

	unsubscribe := c.Subscribe(func(e chat.Event) { send(eventFrame(e)) })
	defer unsubscribe()

	ctx := context.WithoutCancel(r.Context())
	snap := wg.snapshot(ctx, c)
	send(socketFrame{Type: "snapshot", SessionID: sid, Snapshot: &snap})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("widget: websocket read")
			}
			return
		}

		var req socketRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			send(socketFrame{Type: "error", SessionID: sid, Error: "invalid message format"})
			continue
		}
		if err := dispatch(ctx, c, req); err != nil {
			if errors.Is(err, chat.ErrConversationClosed) {
				// The session was reset elsewhere; the client reconnects to the fresh one.
				send(socketFrame{Type: "reset", SessionID: sid})
				select {
				case <-flushed:
				case <-time.After(closeWait):
				}
				return
			}
			send(socketFrame{Type: "error", SessionID: sid, Error: err.Error()})
		}
	}
}

// writeFrames is the connection's only writer. A reset frame is the last
// one written before the close handshake.
func writeFrames(conn *websocket.Conn, out <-chan socketFrame, done <-chan struct{}, log logrus.FieldLogger) {
	for {
		select {
		case f := <-out:
			if err := conn.WriteJSON(f); err != nil {
				log.WithError(err).Warn("widget: websocket write")
				return
			}
			if f.Type == "reset" {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "conversation reset")
				if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait)); err != nil {
					log.WithError(err).Debug("widget: websocket close")
				}
				return
			}
		case <-done:
			return
		}
	}
}

func dispatch(ctx context.Context, c *chat.Conversation, req socketRequest) error {
	switch req.Type {
	case "option":
		return c.SelectOption(ctx, chat.Option{Value: req.Value, Label: req.Label})
	case "text":
		return c.SubmitText(ctx, req.Text)
	case "details":
		return c.ViewProductDetails(ctx, req.ProductID)
	case "add_to_cart":
		var err error
		if req.ProductID == "" {
			_, err = c.AddSelectedToCart(ctx)
		} else {
			_, err = c.AddToCart(ctx, req.ProductID)
		}
		return err
	case "restart":
		return c.Restart(ctx)
	default:
		return fmt.Errorf("unknown message type: %s", req.Type)
	}
}
