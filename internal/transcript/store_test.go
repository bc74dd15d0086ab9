package transcript

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/shopassist/internal/catalog"
	"github.com/ziadkadry99/shopassist/internal/chat"
	"github.com/ziadkadry99/shopassist/internal/db"
	"github.com/ziadkadry99/shopassist/internal/session"
)

const alice session.ID = "session_1700000000000_alice"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func msg(id string, sender chat.Sender, content string) chat.Message {
	return chat.Message{
		ID:        id,
		Type:      chat.TypeText,
		Sender:    sender,
		Content:   content,
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAppendAndLoadKeepsOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	results := msg("m3", chat.SenderBot, "Here are my top recommendations")
	results.Type = chat.TypeProductResults
	results.Options = []chat.Option{{ID: "1", Label: "🔄 Start Over", Value: "restart"}}
	results.Products = []catalog.Product{{ID: "lap-air", Name: "MacBook Air M2", Price: 999, Category: "laptop", Specs: []string{"M2"}}}

	for _, m := range []chat.Message{
		msg("m1", chat.SenderBot, "Hi there"),
		msg("m2", chat.SenderUser, "📚 Student"),
		results,
	} {
		require.NoError(t, store.Append(ctx, alice, m))
	}

	got, err := store.Load(ctx, alice)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "m2", got[1].ID)
	assert.Equal(t, results, got[2])
}

func TestLoadUnknownSessionIsEmpty(t *testing.T) {
	store := newTestStore(t)
	got, err := store.Load(t.Context(), "session_nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()
	bob := session.ID("session_1700000000001_bob")

	require.NoError(t, store.Append(ctx, alice, msg("a1", chat.SenderBot, "hi alice")))
	require.NoError(t, store.Append(ctx, bob, msg("b1", chat.SenderBot, "hi bob")))
	require.NoError(t, store.Append(ctx, alice, msg("a2", chat.SenderUser, "hello")))

	got, err := store.Load(ctx, bob)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hi bob", got[0].Content)

	sessions, err := store.ListSessions(ctx, 0)
	require.NoError(t, err)
	counts := map[session.ID]int{}
	for _, s := range sessions {
		counts[s.SessionID] = s.Messages
	}
	assert.Equal(t, map[session.ID]int{alice: 2, bob: 1}, counts)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()
	require.NoError(t, store.Append(ctx, alice, msg("a1", chat.SenderBot, "hi")))

	require.NoError(t, store.Delete(ctx, alice))
	got, err := store.Load(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, got)

	sessions, err := store.ListSessions(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// Appending after a delete starts a fresh transcript.
	require.NoError(t, store.Append(ctx, alice, msg("a2", chat.SenderBot, "welcome back")))
	got, err = store.Load(ctx, alice)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestDeleteIsAllOrNothing(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()
	require.NoError(t, store.Append(ctx, alice, msg("a1", chat.SenderBot, "hi")))
	require.NoError(t, store.Append(ctx, alice, msg("a2", chat.SenderUser, "hello")))

	// Make the session row undeletable so Delete fails after the messages go.
	_, err := store.db.ExecContext(ctx, `CREATE TRIGGER keep_sessions BEFORE DELETE ON chat_sessions
		BEGIN SELECT RAISE(ABORT, 'session is pinned'); END`)
	require.NoError(t, err)

	err = store.Delete(ctx, alice)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deleting session")

	got, err := store.Load(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	sessions, err := store.ListSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 2, sessions[0].Messages)
}

func TestConversationPersistsThroughStore(t *testing.T) {
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	ctx := t.Context()

	transcripts := NewStore(database)
	products := catalog.NewStore(database)
	m := chat.NewManager(chat.Deps{
		Catalog:     products,
		Transcripts: transcripts,
	}, chat.Options{})
	t.Cleanup(m.Close)

	conv, err := m.Open(ctx, alice)
	require.NoError(t, err)
	require.NoError(t, conv.SelectOption(ctx, chat.Option{Value: "delivery-info"}))

	stored, err := transcripts.Load(ctx, alice)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, chat.SenderUser, stored[1].Sender)
	assert.Equal(t, conv.Messages()[2].Content, stored[2].Content)
}
