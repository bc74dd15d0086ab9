package widget

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/shopassist/internal/chat"
	"github.com/ziadkadry99/shopassist/internal/session"
)

var errBadBody = errors.New("malformed request body")

// actionFunc runs one conversation action. It may decorate the response view.
type actionFunc func(ctx context.Context, c *chat.Conversation, r *http.Request, view *snapshotView) error

// open resolves the {sessionID} path parameter to a live conversation.
func (wg *Widget) open(r *http.Request) (*chat.Conversation, error) {
	sid, err := session.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		return nil, err
	}
	return wg.manager.Open(r.Context(), sid)
}

// action adapts fn to an HTTP handler that answers with the updated
// snapshot. The action runs detached from the request context so a client
// that disconnects mid-reply does not drop the bot's message.
func (wg *Widget) action(fn actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := wg.open(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		ctx := context.WithoutCancel(r.Context())

		var extra snapshotView
		if err := fn(ctx, c, r, &extra); err != nil {
			writeError(w, r, err)
			return
		}
		view := wg.snapshot(ctx, c)
		view.Ticket = extra.Ticket
		writeJSON(w, http.StatusOK, view)
	}
}

func (wg *Widget) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, errBadBody)
		return
	}
	sid := session.New()
	if req.SessionID != "" {
		var err error
		if sid, err = session.Parse(req.SessionID); err != nil {
			writeError(w, r, err)
			return
		}
	}
	c, err := wg.manager.Open(r.Context(), sid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wg.snapshot(r.Context(), c))
}

func (wg *Widget) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	c, err := wg.open(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wg.snapshot(r.Context(), c))
}

func (wg *Widget) handleReset(w http.ResponseWriter, r *http.Request) {
	sid, err := session.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := wg.manager.Reset(r.Context(), sid); err != nil {
		writeError(w, r, err)
		return
	}
	if wg.toasts != nil {
		wg.toasts.Forget(sid)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (wg *Widget) selectOption(ctx context.Context, c *chat.Conversation, r *http.Request, _ *snapshotView) error {
	var req optionRequest
	if err := decode(r, &req); err != nil {
		return errBadBody
	}
	return c.SelectOption(ctx, chat.Option{Value: req.Value, Label: req.Label})
}

func (wg *Widget) submitText(ctx context.Context, c *chat.Conversation, r *http.Request, _ *snapshotView) error {
	var req textRequest
	if err := decode(r, &req); err != nil {
		return errBadBody
	}
	return c.SubmitText(ctx, req.Text)
}

func (wg *Widget) viewDetails(ctx context.Context, c *chat.Conversation, r *http.Request, _ *snapshotView) error {
	return c.ViewProductDetails(ctx, chi.URLParam(r, "productID"))
}

// addItem adds the named product, or the one open in the detail view when
// the body names none.
func (wg *Widget) addItem(ctx context.Context, c *chat.Conversation, r *http.Request, _ *snapshotView) error {
	var req addItemRequest
	if err := decode(r, &req); err != nil {
		return errBadBody
	}
	var err error
	if req.ProductID == "" {
		_, err = c.AddSelectedToCart(ctx)
	} else {
		_, err = c.AddToCart(ctx, req.ProductID)
	}
	return err
}

func (wg *Widget) updateItem(ctx context.Context, c *chat.Conversation, r *http.Request, _ *snapshotView) error {
	var req quantityRequest
	if err := decode(r, &req); err != nil || req.Quantity == nil {
		return errBadBody
	}
	_, err := c.UpdateCartQuantity(ctx, chi.URLParam(r, "itemID"), *req.Quantity)
	return err
}

func (wg *Widget) removeItem(ctx context.Context, c *chat.Conversation, r *http.Request, _ *snapshotView) error {
	_, err := c.RemoveFromCart(ctx, chi.URLParam(r, "itemID"))
	return err
}

func (wg *Widget) sendSupport(ctx context.Context, c *chat.Conversation, r *http.Request, view *snapshotView) error {
	var req chat.SendRequest
	if err := decode(r, &req); err != nil {
		return errBadBody
	}
	ticket, err := c.SendSupportEmail(ctx, req)
	if err != nil {
		return err
	}
	view.Ticket = ticket
	return nil
}
