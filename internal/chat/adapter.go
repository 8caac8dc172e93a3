package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

//go:generate mockgen -source=adapter.go -destination=agent_mock.go -package=chat
type Agent interface {
	Run(ctx context.Context, input string) (string, error)
}

const promptTemplate = `You are querying a portfolio management PostgreSQL database with these tables:

- investment_category (category_id, category_name, description, is_active)
- portfolio_month (month_id, year, month, snapshot_date)
- portfolio_value (value_id, month_id, category_id, amount, updated_at)

User question:
%s

Provide a clear, concise answer with relevant data.`

// Adapter forwards questions to an Agent. A nil agent is allowed and answers
// every question with ErrAgentNotInitialized, so the rest of the application
// can run without an API key.
type Adapter struct {
	agent Agent
}

func NewAdapter(agent Agent) *Adapter {
	return &Adapter{agent: agent}
}

func (a *Adapter) Ready() bool {
	return a.agent != nil
}

func BuildPrompt(question string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(question))
}

func (a *Adapter) Query(ctx context.Context, question string) Result {
	if a.agent == nil {
		return Result{Output: notInitializedOutput, Error: ErrAgentNotInitialized.Error()}
	}

	output, err := a.agent.Run(ctx, BuildPrompt(question))
	if err != nil {
		slog.ErrorContext(ctx, "chat agent failed", "error", err)
		return Result{Output: failureOutput, Error: err.Error()}
	}

	return Result{Success: true, Output: output}
}

// Ask runs Query and records both sides of the exchange in the session.
func (a *Adapter) Ask(ctx context.Context, session *Session, question string) (Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Result{}, ErrEmptyQuestion
	}

	asked := Message{Role: RoleUser, Content: question, CreatedAt: time.Now()}

	res := a.Query(ctx, question)

	session.append(asked, Message{
		Role:      RoleAssistant,
		Content:   res.Output,
		Error:     res.Error,
		CreatedAt: time.Now(),
	})

	return res, nil
}
