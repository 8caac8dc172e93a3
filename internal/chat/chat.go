package chat

import (
	"errors"
	"time"
)

var (
	ErrAgentNotInitialized = errors.New("agent not initialized")
	ErrSessionNotFound     = errors.New("chat session not found")
	ErrEmptyQuestion       = errors.New("question is required")
)

const (
	Greeting = "Hello! I'm your AI Portfolio Assistant. I can help you analyze your portfolio data " +
		"using natural language. Ask me anything about your investments, categories, or portfolio history!"

	notInitializedOutput = "Chat agent not initialized. Please check your API key and database connection."
	failureOutput        = "Sorry, I encountered an error processing your question."
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Result is what a question produces. Output is always fit for display;
// Error carries the raw cause when Success is false.
type Result struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
	Error   string `json:"error,omitempty"`
}

var suggestedQuestions = []string{
	"What is my total portfolio value for the latest month?",
	"Show me all investment categories",
	"What was my portfolio value in December 2024?",
	"Which category has the highest investment?",
	"Show me the trend of my portfolio over the last 6 months",
	"What is the average portfolio value per month?",
	"List all months where I have portfolio data",
	"Compare my portfolio values between different months",
	"What are my active investment categories?",
	"Show me the growth rate of my portfolio",
}

func SuggestedQuestions() []string {
	out := make([]string, len(suggestedQuestions))
	copy(out, suggestedQuestions)

	return out
}
