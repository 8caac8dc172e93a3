package chat_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/folio/internal/chat"
	chatHTTP "github.com/MrJamesThe3rd/folio/internal/http/chat"
)

type sessionBody struct {
	ID       uuid.UUID      `json:"id"`
	Ready    bool           `json:"ready"`
	Messages []chat.Message `json:"messages"`
}

func newServer(agent chat.Agent) http.Handler {
	r := chi.NewRouter()
	r.Route("/chat", chatHTTP.NewHandler(chat.NewAdapter(agent), chat.NewRegistry()).Routes)

	return r
}

func do(srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

func createSession(t *testing.T, srv http.Handler) sessionBody {
	t.Helper()

	rec := do(srv, http.MethodPost, "/chat/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var s sessionBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&s))

	return s
}

func TestHandler_Conversation(t *testing.T) {
	ctrl := gomock.NewController(t)
	agent := chat.NewMockAgent(ctrl)
	agent.EXPECT().Run(gomock.Any(), gomock.Any()).Return("You have 12 categories.", nil)

	srv := newServer(agent)

	s := createSession(t, srv)
	assert.True(t, s.Ready)
	require.Len(t, s.Messages, 1)
	assert.Equal(t, chat.Greeting, s.Messages[0].Content)

	rec := do(srv, http.MethodPost, "/chat/sessions/"+s.ID.String()+"/messages", `{"question":"How many categories?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"output":"You have 12 categories."}`, rec.Body.String())

	rec = do(srv, http.MethodGet, "/chat/sessions/"+s.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var history sessionBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&history))
	assert.Len(t, history.Messages, 3)

	rec = do(srv, http.MethodDelete, "/chat/sessions/"+s.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(srv, http.MethodGet, "/chat/sessions/"+s.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_NotInitialized(t *testing.T) {
	srv := newServer(nil)

	s := createSession(t, srv)
	assert.False(t, s.Ready)

	rec := do(srv, http.MethodPost, "/chat/sessions/"+s.ID.String()+"/messages", `{"question":"Total?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res chat.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.False(t, res.Success)
	assert.Equal(t, chat.ErrAgentNotInitialized.Error(), res.Error)
}

func TestHandler_BadRequests(t *testing.T) {
	srv := newServer(nil)
	s := createSession(t, srv)

	assert.Equal(t, http.StatusBadRequest,
		do(srv, http.MethodPost, "/chat/sessions/"+s.ID.String()+"/messages", `{"question":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodGet, "/chat/sessions/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNotFound,
		do(srv, http.MethodPost, "/chat/sessions/"+uuid.NewString()+"/messages", `{"question":"hi"}`).Code)
}

func TestHandler_Suggestions(t *testing.T) {
	rec := do(newServer(nil), http.MethodGet, "/chat/suggestions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var qs []string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&qs))
	assert.Len(t, qs, 10)
}
