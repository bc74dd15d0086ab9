// Package widget is the HTTP and WebSocket surface of the chat widget.
package widget

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/shopassist/internal/cart"
	"github.com/ziadkadry99/shopassist/internal/chat"
	"github.com/ziadkadry99/shopassist/internal/logging"
	"github.com/ziadkadry99/shopassist/internal/notifications"
	"github.com/ziadkadry99/shopassist/internal/session"
	"github.com/ziadkadry99/shopassist/internal/support"
)

//go:embed index.html
var indexHTML []byte

// Widget serves conversations owned by a chat.Manager.
type Widget struct {
	manager *chat.Manager
	toasts  *notifications.Store
	log     logrus.FieldLogger
}

// New creates a widget. toasts may be nil; when set, a session reset also
// drops its buffered notifications.
func New(manager *chat.Manager, toasts *notifications.Store, log logrus.FieldLogger) *Widget {
	if log == nil {
		log = logging.Discard()
	}
	return &Widget{manager: manager, toasts: toasts, log: log}
}

// RegisterRoutes mounts all widget routes onto the given router.
func (wg *Widget) RegisterRoutes(r chi.Router) {
	r.Get("/", wg.serveIndex)
	r.Get("/ws/chat", wg.handleSocket)

	r.Route("/api/chat/sessions", func(r chi.Router) {
		r.Post("/", wg.handleOpen)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", wg.handleSnapshot)
			r.Delete("/", wg.handleReset)

			r.Post("/options", wg.action(wg.selectOption))
			r.Post("/text", wg.action(wg.submitText))
			r.Post("/products/{productID}/details", wg.action(wg.viewDetails))
			r.Post("/detail/back", wg.action(func(ctx context.Context, c *chat.Conversation, _ *http.Request, _ *snapshotView) error {
				return c.BackFromDetail(ctx)
			}))

			r.Post("/cart/items", wg.action(wg.addItem))
			r.Patch("/cart/items/{itemID}", wg.action(wg.updateItem))
			r.Delete("/cart/items/{itemID}", wg.action(wg.removeItem))
			r.Post("/cart/continue", wg.action(func(ctx context.Context, c *chat.Conversation, _ *http.Request, _ *snapshotView) error {
				return c.ContinueShopping(ctx)
			}))
			r.Post("/cart/checkout", wg.action(func(ctx context.Context, c *chat.Conversation, _ *http.Request, _ *snapshotView) error {
				return c.Checkout(ctx)
			}))

			r.Post("/support/send", wg.action(wg.sendSupport))
			r.Post("/support/back", wg.action(func(ctx context.Context, c *chat.Conversation, _ *http.Request, _ *snapshotView) error {
				return c.BackFromSupport(ctx)
			}))
			r.Post("/restart", wg.action(func(ctx context.Context, c *chat.Conversation, _ *http.Request, _ *snapshotView) error {
				return c.Restart(ctx)
			}))
		})
	})
}

func (wg *Widget) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// snapshot assembles the session view. A cart that cannot be loaded is
// left out rather than failing the request.
func (wg *Widget) snapshot(ctx context.Context, c *chat.Conversation) snapshotView {
	s := c.Snapshot()
	view := snapshotView{
		SessionID: s.SessionID,
		State:     s.State,
		Typing:    s.Typing,
		Busy:      s.Busy,
		Messages:  make([]messageView, 0, len(s.Messages)),
	}
	for _, m := range s.Messages {
		view.Messages = append(view.Messages, viewMessage(m))
	}
	summary, err := c.Cart(ctx)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Warn("loading cart for snapshot failed")
	} else {
		view.Cart = summary
	}
	return view
}

// errorStatus maps controller and store errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errBadBody),
		errors.Is(err, session.ErrInvalid),
		errors.Is(err, chat.ErrUnknownOption),
		errors.Is(err, chat.ErrEmptyText),
		errors.Is(err, support.ErrInvalidEmail):
		return http.StatusBadRequest
	case errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, cart.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, chat.ErrInputDisabled),
		errors.Is(err, chat.ErrNoProductSelected),
		errors.Is(err, chat.ErrNoSupportDraft):
		return http.StatusConflict
	case errors.Is(err, chat.ErrConversationClosed):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).WithError(err).Error("widget request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}
