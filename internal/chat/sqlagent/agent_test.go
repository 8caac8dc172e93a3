package sqlagent_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/folio/internal/chat/sqlagent"
)

type fakeToolbox struct {
	queries []string
}

func (f *fakeToolbox) ListTables(context.Context) ([]string, error) {
	return []string{"investment_category", "portfolio_month", "portfolio_value"}, nil
}

func (f *fakeToolbox) DescribeTable(_ context.Context, name string) (string, error) {
	return "CREATE TABLE " + name + " ()", nil
}

func (f *fakeToolbox) RunQuery(_ context.Context, stmt string) (string, error) {
	f.queries = append(f.queries, stmt)
	return "total\n1000.00", nil
}

// fakeOpenAI replays the given replies in order and records every request.
func fakeOpenAI(t *testing.T, replies ...openai.ChatCompletionMessage) (*httptest.Server, *[]openai.ChatCompletionRequest) {
	t.Helper()

	var (
		mu       sync.Mutex
		requests []openai.ChatCompletionRequest
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		mu.Lock()
		n := len(requests)
		requests = append(requests, req)
		mu.Unlock()

		reply := replies[len(replies)-1]
		if n < len(replies) {
			reply = replies[n]
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:      "chatcmpl-test",
			Object:  "chat.completion",
			Model:   req.Model,
			Choices: []openai.ChatCompletionChoice{{Message: reply}},
		})
	}))
	t.Cleanup(srv.Close)

	return srv, &requests
}

func toolCall(id, name, args string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant,
		ToolCalls: []openai.ToolCall{{
			ID:       id,
			Type:     openai.ToolTypeFunction,
			Function: openai.FunctionCall{Name: name, Arguments: args},
		}},
	}
}

func newAgent(srv *httptest.Server, tools sqlagent.Toolbox, maxIterations int) *sqlagent.Agent {
	return sqlagent.New(sqlagent.Config{
		APIKey:        "test-key",
		BaseURL:       srv.URL + "/v1",
		Model:         "gpt-4o-mini",
		MaxIterations: maxIterations,
	}, tools)
}

func TestAgent_Run_UsesToolsThenAnswers(t *testing.T) {
	srv, requests := fakeOpenAI(t,
		toolCall("call_1", "list_tables", "{}"),
		toolCall("call_2", "run_query", `{"query":"SELECT SUM(amount) AS total FROM portfolio_value"}`),
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "Your total is 1000.00."},
	)

	tools := &fakeToolbox{}

	out, err := newAgent(srv, tools, 10).Run(context.Background(), "What is my total?")
	require.NoError(t, err)
	assert.Equal(t, "Your total is 1000.00.", out)

	assert.Equal(t, []string{"SELECT SUM(amount) AS total FROM portfolio_value"}, tools.queries)

	require.Len(t, *requests, 3)

	first := (*requests)[0]
	assert.Equal(t, "gpt-4o-mini", first.Model)
	assert.Len(t, first.Tools, 3)
	require.Len(t, first.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, first.Messages[0].Role)
	assert.Equal(t, "What is my total?", first.Messages[1].Content)

	last := (*requests)[2]
	toolMsg := last.Messages[len(last.Messages)-1]
	assert.Equal(t, openai.ChatMessageRoleTool, toolMsg.Role)
	assert.Equal(t, "call_2", toolMsg.ToolCallID)
	assert.Equal(t, "total\n1000.00", toolMsg.Content)
}

func TestAgent_Run_ToolErrorsGoBackToModel(t *testing.T) {
	srv, requests := fakeOpenAI(t,
		toolCall("call_1", "drop_everything", "{}"),
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "I cannot do that."},
	)

	out, err := newAgent(srv, &fakeToolbox{}, 10).Run(context.Background(), "Drop it")
	require.NoError(t, err)
	assert.Equal(t, "I cannot do that.", out)

	second := (*requests)[1]
	toolMsg := second.Messages[len(second.Messages)-1]
	assert.Contains(t, toolMsg.Content, "Error: drop_everything is not a valid tool")
}

func TestAgent_Run_IterationLimit(t *testing.T) {
	srv, requests := fakeOpenAI(t, toolCall("call_n", "list_tables", "{}"))

	_, err := newAgent(srv, &fakeToolbox{}, 3).Run(context.Background(), "Loop forever")
	require.ErrorIs(t, err, sqlagent.ErrIterationLimit)
	assert.Len(t, *requests, 3)
}

func TestAgent_Run_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	t.Cleanup(srv.Close)

	_, err := newAgent(srv, &fakeToolbox{}, 10).Run(context.Background(), "Anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}
