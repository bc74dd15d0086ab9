package chat

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/shopassist/internal/notifications"
	"github.com/ziadkadry99/shopassist/internal/session"
)

// Conversation is the flow controller for one session. Handlers run one at a
// time: each public action takes the busy token for its whole duration,
// including collaborator calls and the typing delay.
type Conversation struct {
	id   session.ID
	deps Deps
	opts Options
	log  logrus.FieldLogger

	busy chan struct{}
	done chan struct{}
	once sync.Once

	mu        sync.Mutex
	state     State
	messages  []Message
	typing    bool
	listeners map[int]func(Event)
	nextSub   int
}

// newConversation builds a conversation from persisted state and transcript.
// An empty transcript starts with the welcome message.
func newConversation(ctx context.Context, id session.ID, deps Deps, opts Options, state State, transcript []Message) *Conversation {
	c := buildConversation(id, deps, opts, state, transcript)
	if len(c.messages) == 0 {
		c.start(ctx)
	}
	return c
}

func buildConversation(id session.ID, deps Deps, opts Options, state State, transcript []Message) *Conversation {
	deps = deps.withDefaults()
	return &Conversation{
		id:        id,
		deps:      deps,
		opts:      opts,
		log:       deps.Log.WithField("session_id", string(id)),
		busy:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		state:     state,
		messages:  transcript,
		listeners: make(map[int]func(Event)),
	}
}

// start greets a session that has no transcript yet.
func (c *Conversation) start(ctx context.Context) {
	if c.Closed() {
		return
	}
	s := initialState()
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.appendMessage(ctx, welcomeMessage())
	c.saveState(ctx, s)
}

// ID returns the session this conversation belongs to.
func (c *Conversation) ID() session.ID { return c.id }

// State returns a copy of the current state.
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Typing reports whether a bot reply is pending.
func (c *Conversation) Typing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing
}

// Busy reports whether a handler is running. Clients use it to disable input.
func (c *Conversation) Busy() bool {
	return len(c.busy) > 0
}

// Snapshot returns state, transcript and indicators in one consistent copy.
func (c *Conversation) Snapshot() Snapshot {
	busy := c.Busy()
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		SessionID: c.id,
		State:     c.state,
		Messages:  append([]Message(nil), c.messages...),
		Typing:    c.typing,
		Busy:      busy,
	}
}

// Subscribe registers fn for every subsequent event. fn runs on the
// handler's goroutine and must not block or call back into the conversation.
func (c *Conversation) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Close tears the conversation down. A reply waiting out its typing delay
// is dropped, and later actions fail with ErrConversationClosed.
func (c *Conversation) Close() {
	c.once.Do(func() { close(c.done) })
}

// Closed reports whether Close has been called.
func (c *Conversation) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// run executes fn holding the busy token.
func (c *Conversation) run(ctx context.Context, action string, fn func(ctx context.Context) error) error {
	if c.Closed() {
		return ErrConversationClosed
	}
	select {
	case c.busy <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrConversationClosed
	}
	defer func() { <-c.busy }()

	if c.Closed() {
		return ErrConversationClosed
	}

	start := time.Now()
	err := fn(ctx)
	c.deps.Metrics.ObserveHandler(action, time.Since(start), err)
	return err
}

func (c *Conversation) publish(e Event) {
	e.SessionID = c.id
	c.mu.Lock()
	fns := make([]func(Event), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// appendMessage adds m to the transcript immediately.
func (c *Conversation) appendMessage(ctx context.Context, m Message) {
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()

	if c.deps.Transcripts != nil {
		if err := c.deps.Transcripts.Append(ctx, c.id, m); err != nil {
			c.log.WithError(err).WithField("message_id", m.ID).Warn("persisting transcript message failed")
		}
	}
	c.deps.Metrics.ObserveMessage(string(m.Sender), string(m.Type))
	c.publish(Event{Type: EventMessage, Message: &m})
}

func (c *Conversation) setTyping(typing bool) {
	c.mu.Lock()
	c.typing = typing
	c.mu.Unlock()
	c.publish(Event{Type: EventTyping, Typing: typing})
}

// deliver shows the typing indicator, waits out the typing delay and then
// appends m. Cancelling ctx or closing the conversation during the wait
// drops m.
func (c *Conversation) deliver(ctx context.Context, m Message) error {
	c.setTyping(true)
	defer c.setTyping(false)

	if c.opts.TypingDelay > 0 {
		timer := time.NewTimer(c.opts.TypingDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return ErrConversationClosed
		}
	}

	c.appendMessage(ctx, m)
	return nil
}

// commit replaces the state, persists it and publishes the change.
func (c *Conversation) commit(ctx context.Context, next State, trigger string) {
	if next.Flow != FlowProductDetail {
		next.SelectedProductID = ""
	}
	c.mu.Lock()
	prev := c.state.Flow
	c.state = next
	c.mu.Unlock()

	c.saveState(ctx, next)
	c.deps.Metrics.ObserveTransition(string(prev), string(next.Flow), trigger)
	c.publish(Event{Type: EventState, State: &next})
}

func (c *Conversation) saveState(ctx context.Context, s State) {
	if c.deps.States == nil {
		return
	}
	if err := c.deps.States.Save(ctx, c.id, s); err != nil {
		c.log.WithError(err).Warn("persisting conversation state failed")
	}
}

// notify raises a transient notification to subscribers and the notifier.
func (c *Conversation) notify(ctx context.Context, level notifications.Level, title, description string) {
	t := notifications.Toast{
		SessionID:   c.id,
		Level:       level,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if c.deps.Notifier != nil {
		c.deps.Notifier.Notify(ctx, t)
	}
	c.publish(Event{Type: EventNotification, Toast: &t})
}

// collaboratorFailed logs and counts a failed collaborator call.
func (c *Conversation) collaboratorFailed(collaborator, op string, err error) {
	c.log.WithError(err).WithFields(logrus.Fields{
		"collaborator": collaborator,
		"op":           op,
	}).Warn("collaborator call failed")
	c.deps.Metrics.ObserveCollaboratorFailure(collaborator, op)
}
