package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/shopassist/internal/logging"
)

// Dispatcher buffers toasts for polling clients and forwards those at or
// above a threshold level to an operations webhook.
type Dispatcher struct {
	store      *Store
	client     *http.Client
	log        logrus.FieldLogger
	webhookURL string
	minLevel   Level
	wg         sync.WaitGroup
}

// NewDispatcher creates a Dispatcher backed by the given store. An empty
// webhookURL disables forwarding.
func NewDispatcher(store *Store, webhookURL string, minLevel Level, log logrus.FieldLogger) *Dispatcher {
	if log == nil {
		log = logging.Discard()
	}
	return &Dispatcher{
		store: store,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log:        log,
		webhookURL: webhookURL,
		minLevel:   minLevel,
	}
}

// Notify buffers t and forwards it in the background when it qualifies.
// Delivery problems are logged, never returned.
func (d *Dispatcher) Notify(ctx context.Context, t Toast) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	d.store.Add(t)

	d.log.WithFields(logrus.Fields{
		"session_id": string(t.SessionID),
		"level":      t.Level,
	}).Debug(t.Title)

	if d.webhookURL == "" || !levelMatches(t.Level, d.minLevel) {
		return
	}
	payload, err := json.Marshal(t)
	if err != nil {
		d.log.WithError(err).Warn("encoding notification")
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.SendWebhook(context.WithoutCancel(ctx), d.webhookURL, payload); err != nil {
			d.log.WithError(err).WithField("session_id", string(t.SessionID)).Warn("notification webhook failed")
		}
	}()
}

// Wait blocks until in-flight webhook deliveries finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// SendWebhook POSTs payload to the given URL.
func (d *Dispatcher) SendWebhook(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// ParseLevel validates a configured level.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if _, ok := levelRank[l]; !ok {
		return "", fmt.Errorf("invalid notification level %q: must be one of info, success, error", s)
	}
	return l, nil
}

var levelRank = map[Level]int{
	LevelInfo:    0,
	LevelSuccess: 1,
	LevelError:   2,
}

// levelMatches returns true if the toast level meets or exceeds the threshold.
func levelMatches(actual, threshold Level) bool {
	return levelRank[actual] >= levelRank[threshold]
}
