package sqlagent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

var ErrIterationLimit = errors.New("agent stopped due to iteration limit")

const systemPrompt = `You are an agent designed to interact with a PostgreSQL database.
Given an input question, create a syntactically correct PostgreSQL query to run, then look at the results of the query and return the answer.
Unless the user specifies a specific number of examples they wish to obtain, always limit your query to at most 10 results.
You can order the results by a relevant column to return the most interesting examples in the database.
Never query for all the columns from a specific table, only ask for the relevant columns given the question.
You have access to tools for interacting with the database. Only use the information returned by the tools to construct your final answer.
If you get an error while executing a query, rewrite the query and try again.
DO NOT make any DML statements (INSERT, UPDATE, DELETE, DROP etc.) to the database.
Start by listing the tables, then describe the relevant ones before querying.`

const (
	toolListTables    = "list_tables"
	toolDescribeTable = "describe_table"
	toolRunQuery      = "run_query"
)

// Toolbox is the database surface the agent may use.
type Toolbox interface {
	ListTables(ctx context.Context) ([]string, error)
	DescribeTable(ctx context.Context, name string) (string, error)
	RunQuery(ctx context.Context, stmt string) (string, error)
}

type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	MaxIterations int
}

// Agent answers questions by letting the model call database tools until it
// replies without requesting any.
type Agent struct {
	client        *openai.Client
	tools         Toolbox
	model         string
	maxIterations int
}

func New(cfg Config, tools Toolbox) *Agent {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Agent{
		client:        openai.NewClientWithConfig(clientCfg),
		tools:         tools,
		model:         cfg.Model,
		maxIterations: cfg.MaxIterations,
	}
}

func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: input},
	}

	for range a.maxIterations {
		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    a.model,
			Messages: messages,
			Tools:    toolDefinitions,
			// A zero temperature is dropped by omitempty; this is the closest
			// value the client will actually send.
			Temperature: math.SmallestNonzeroFloat32,
		})
		if err != nil {
			return "", fmt.Errorf("requesting completion: %w", err)
		}

		if len(resp.Choices) == 0 {
			return "", errors.New("completion returned no choices")
		}

		reply := resp.Choices[0].Message
		if len(reply.ToolCalls) == 0 {
			return strings.TrimSpace(reply.Content), nil
		}

		messages = append(messages, reply)

		for _, call := range reply.ToolCalls {
			slog.DebugContext(ctx, "agent tool call",
				"tool", call.Function.Name, "arguments", call.Function.Arguments)

			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    a.callTool(ctx, call.Function),
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("%w (%d)", ErrIterationLimit, a.maxIterations)
}

// callTool never fails: errors go back to the model as text so it can correct
// itself.
func (a *Agent) callTool(ctx context.Context, fn openai.FunctionCall) string {
	var args struct {
		Table string `json:"table"`
		Query string `json:"query"`
	}

	if fn.Arguments != "" {
		if err := json.Unmarshal([]byte(fn.Arguments), &args); err != nil {
			return "Error: invalid arguments: " + err.Error()
		}
	}

	var (
		out string
		err error
	)

	switch fn.Name {
	case toolListTables:
		var names []string

		names, err = a.tools.ListTables(ctx)
		out = strings.Join(names, ", ")
	case toolDescribeTable:
		out, err = a.tools.DescribeTable(ctx, args.Table)
	case toolRunQuery:
		out, err = a.tools.RunQuery(ctx, args.Query)
	default:
		return fmt.Sprintf("Error: %s is not a valid tool, try one of [%s, %s, %s].",
			fn.Name, toolListTables, toolDescribeTable, toolRunQuery)
	}

	if err != nil {
		return "Error: " + err.Error()
	}

	return out
}

var toolDefinitions = []openai.Tool{
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        toolListTables,
			Description: "List the tables in the database.",
			Parameters:  jsonschema.Definition{Type: jsonschema.Object, Properties: map[string]jsonschema.Definition{}},
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        toolDescribeTable,
			Description: "Show the columns and types of one table.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"table": {Type: jsonschema.String, Description: "Table name, e.g. portfolio_value"},
				},
				Required: []string{"table"},
			},
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name: toolRunQuery,
			Description: "Run a single read-only SELECT statement and return the rows as a table. " +
				"If the query is wrong an error is returned; rewrite it and try again.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"query": {Type: jsonschema.String, Description: "A PostgreSQL SELECT statement"},
				},
				Required: []string{"query"},
			},
		},
	},
}
