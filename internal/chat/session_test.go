package chat_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/folio/internal/chat"
)

func TestRegistry_Lifecycle(t *testing.T) {
	r := chat.NewRegistry()

	s := r.Create()
	require.NotEqual(t, uuid.Nil, s.ID)

	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, r.Clear(s.ID))

	_, err = r.Get(s.ID)
	assert.ErrorIs(t, err, chat.ErrSessionNotFound)

	assert.ErrorIs(t, r.Clear(s.ID), chat.ErrSessionNotFound)
}

func TestRegistry_SessionsAreIndependent(t *testing.T) {
	r := chat.NewRegistry()

	a := r.Create()
	b := r.Create()

	assert.NotEqual(t, a.ID, b.ID)

	require.NoError(t, r.Clear(a.ID))

	_, err := r.Get(b.ID)
	assert.NoError(t, err)
}

func TestSession_MessagesIsACopy(t *testing.T) {
	s := chat.NewSession()

	msgs := s.Messages()
	msgs[0].Content = "tampered"

	assert.Equal(t, chat.Greeting, s.Messages()[0].Content)
}
