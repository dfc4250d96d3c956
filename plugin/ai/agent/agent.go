// Package agent runs the tool-calling loop that turns a natural-language
// request into tool executions and a final Vietnamese answer.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/nhatminh/trolyai/plugin/ai"
	"github.com/nhatminh/trolyai/plugin/ai/agent/tools"
)

const (
	// maxIterations bounds the tool-calling loop so a confused model
	// cannot spin forever.
	maxIterations = 10

	// runTimeout bounds one full agent run including every tool call.
	runTimeout = 120 * time.Second
)

// ErrMaxIterations is returned when the model keeps requesting tools
// past the iteration cap without producing a final answer.
var ErrMaxIterations = errors.New("agent: tool loop exceeded iteration limit")

// Agent drives an LLM with a fixed toolset. It is stateless across runs;
// conversation history is supplied by the caller on every request.
type Agent struct {
	llm          ai.LLMService
	tools        map[string]tools.Tool
	descriptors  []ai.ToolDescriptor
	systemPrompt string
}

// New creates an agent over the given toolset. Tool names must be unique.
func New(llm ai.LLMService, systemPrompt string, toolset ...tools.Tool) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm cannot be nil")
	}
	if len(toolset) == 0 {
		return nil, errors.New("at least one tool is required")
	}

	byName := make(map[string]tools.Tool, len(toolset))
	descriptors := make([]ai.ToolDescriptor, 0, len(toolset))
	for _, t := range toolset {
		if _, dup := byName[t.Name()]; dup {
			return nil, errors.Errorf("duplicate tool name %q", t.Name())
		}
		byName[t.Name()] = t
		descriptors = append(descriptors, ai.ToolDescriptor{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.InputType(),
		})
	}

	return &Agent{
		llm:          llm,
		tools:        byName,
		descriptors:  descriptors,
		systemPrompt: systemPrompt,
	}, nil
}

// Respond answers one user message given prior conversation history.
// History messages must alternate user/assistant roles and carry no tool
// traffic; tool calls live only inside a single run.
func (a *Agent) Respond(ctx context.Context, history []ai.Message, userInput string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	messages := make([]ai.Message, 0, len(history)+2)
	messages = append(messages, ai.SystemMessage(a.systemPrompt))
	messages = append(messages, history...)
	messages = append(messages, ai.UserMessage(userInput))

	start := time.Now()
	for iteration := 0; iteration < maxIterations; iteration++ {
		resp, err := a.llm.ChatWithTools(ctx, messages, a.descriptors)
		if err != nil {
			return "", errors.Wrap(err, "chat completion failed")
		}

		if len(resp.ToolCalls) == 0 {
			slog.Info("agent run finished",
				"iterations", iteration+1,
				"duration", time.Since(start))
			return resp.Content, nil
		}

		messages = append(messages, ai.Message{
			Role:      ai.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			messages = append(messages, ai.Message{
				Role:       ai.RoleTool,
				ToolCallID: call.ID,
				Content:    a.runTool(ctx, call),
			})
		}
	}

	return "", ErrMaxIterations
}

// runTool executes one requested tool call. Failures are reported back to
// the model as tool output so it can recover or rephrase; they never abort
// the run.
func (a *Agent) runTool(ctx context.Context, call ai.ToolCall) string {
	tool, ok := a.tools[call.Name]
	if !ok {
		slog.Warn("model requested unknown tool", "tool", call.Name)
		return fmt.Sprintf("Lỗi: tool '%s' không tồn tại.", call.Name)
	}

	start := time.Now()
	out, err := tool.Run(ctx, call.Arguments)
	if err != nil {
		slog.Warn("tool execution failed",
			"tool", call.Name,
			"error", err,
			"duration", time.Since(start))
		return fmt.Sprintf("Lỗi khi thực thi tool '%s': %v", call.Name, err)
	}

	slog.Info("tool executed",
		"tool", call.Name,
		"duration", time.Since(start))
	return out
}
