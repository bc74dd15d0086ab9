package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/ziadkadry99/shopassist/internal/session"
)

// Manager owns the live conversation of every session.
type Manager struct {
	deps Deps
	opts Options

	mu    sync.Mutex
	convs map[session.ID]*Conversation
}

// NewManager creates a manager whose conversations share deps and opts.
func NewManager(deps Deps, opts Options) *Manager {
	return &Manager{
		deps:  deps.withDefaults(),
		opts:  opts,
		convs: make(map[session.ID]*Conversation),
	}
}

// Open returns the session's conversation, resuming it from the state and
// transcript stores when it is not live yet.
func (m *Manager) Open(ctx context.Context, sid session.ID) (*Conversation, error) {
	if !session.Valid(sid) {
		return nil, fmt.Errorf("%w: %q", session.ErrInvalid, sid)
	}

	if c, ok := m.Get(sid); ok {
		return c, nil
	}

	// Loaded outside the lock; a concurrent Open of the same session may
	// win the insert below.
	state := initialState()
	if m.deps.States != nil {
		saved, err := m.deps.States.Load(ctx, sid)
		if err != nil {
			return nil, fmt.Errorf("loading conversation state: %w", err)
		}
		if saved != nil {
			state = *saved
		}
	}

	var transcript []Message
	if m.deps.Transcripts != nil {
		var err error
		transcript, err = m.deps.Transcripts.Load(ctx, sid)
		if err != nil {
			return nil, fmt.Errorf("loading transcript: %w", err)
		}
	}

	m.mu.Lock()
	if c, ok := m.convs[sid]; ok {
		m.mu.Unlock()
		return c, nil
	}
	c := buildConversation(sid, m.deps, m.opts, state, transcript)
	fresh := len(transcript) == 0
	if fresh {
		// Hold the busy slot so no action runs before the welcome is written.
		c.busy <- struct{}{}
	}
	m.convs[sid] = c
	m.mu.Unlock()

	if fresh {
		c.start(ctx)
		<-c.busy
	}
	return c, nil
}

// Get returns a live conversation without resuming one.
func (m *Manager) Get(sid session.ID) (*Conversation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.convs[sid]
	return c, ok
}

// Reset tears down the session's conversation and deletes its persisted
// state, transcript and cart. The next Open starts from the welcome message.
func (m *Manager) Reset(ctx context.Context, sid session.ID) error {
	m.mu.Lock()
	if c, ok := m.convs[sid]; ok {
		c.Close()
		delete(m.convs, sid)
	}
	m.mu.Unlock()

	if m.deps.States != nil {
		if err := m.deps.States.Delete(ctx, sid); err != nil {
			return fmt.Errorf("deleting conversation state: %w", err)
		}
	}
	if m.deps.Transcripts != nil {
		if err := m.deps.Transcripts.Delete(ctx, sid); err != nil {
			return fmt.Errorf("deleting transcript: %w", err)
		}
	}
	if err := m.deps.Cart.Clear(ctx, sid); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

// Len returns the number of live conversations.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.convs)
}

// Close tears down every live conversation.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sid, c := range m.convs {
		c.Close()
		delete(m.convs, sid)
	}
}
