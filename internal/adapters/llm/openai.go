// Package llm adapts OpenAI chat completions to the chat and crowding
// analysis ports.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/ports"
	"github.com/simhastha/margdarshak/internal/core/usecases"
)

const (
	toolGetDirections  = "get_directions"
	toolLocateFacility = "locate_facility"

	// Tool-resolution rounds before the model must answer in prose.
	maxToolRounds = 3
)

// Client implements ports.CompletionService and ports.CrowdingAnalyzer.
type Client struct {
	api        *openai.Client
	model      string
	facilities *usecases.FacilityService
}

// New builds the adapter. The registry supplies the closed facility
// vocabulary for the system prompt and resolves tool calls.
func New(apiKey, model string, facilities *usecases.FacilityService) *Client {
	return &Client{
		api:        openai.NewClient(apiKey),
		model:      model,
		facilities: facilities,
	}
}

func (c *Client) systemPrompt(userPos *domain.Position) string {
	var b strings.Builder
	b.WriteString("You are Margdarshak, the helpful guide for pilgrims attending Simhastha 2028 in Ujjain. ")
	b.WriteString("Answer in the language the user writes in; you understand Hindi, English, Marathi, Gujarati, and Bhojpuri. ")
	b.WriteString("Keep answers short and practical.\n\n")
	b.WriteString("You only know about the facilities listed below. Never invent places. ")
	b.WriteString("When the user asks where something is, call locate_facility with its exact name so the map focuses it. ")
	b.WriteString("When the user asks how to get somewhere, call get_directions; the destination must be an exact facility name.\n")
	if userPos != nil {
		fmt.Fprintf(&b, "The user is currently at %.5f,%.5f. Use that as the start for directions unless they name another start.\n", userPos.Lat, userPos.Lng)
	} else {
		b.WriteString("The user's position is unknown. Ask where they are starting from before giving directions.\n")
	}
	b.WriteString("\nFacilities:\n")
	for _, f := range c.facilities.Snapshot() {
		fmt.Fprintf(&b, "- %s (%s)\n", f.Name, f.Type)
	}
	return b.String()
}

func chatTools() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolGetDirections,
				Description: "Resolve a route between a start and a destination facility. from may be a facility name or a lat,lng pair; to must be a facility name.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"from": {"type": "string"},
						"to": {"type": "string"}
					},
					"required": ["from", "to"]
				}`),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolLocateFacility,
				Description: "Focus the map on a facility. name must be an exact facility name.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"name": {"type": "string"}
					},
					"required": ["name"]
				}`),
			},
		},
	}
}

// StreamChat runs one conversation turn. Tool calls are resolved
// against the registry first, then the final answer is streamed.
func (c *Client) StreamChat(ctx context.Context, history []domain.ChatMessage, message string, userPos *domain.Position) (<-chan domain.ChatFragment, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: c.systemPrompt(userPos),
	})
	for _, m := range history {
		role := openai.ChatMessageRoleAssistant
		if m.Role == domain.RoleUser {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	out := make(chan domain.ChatFragment, 16)
	go func() {
		defer close(out)
		c.runTurn(ctx, messages, userPos, out)
	}()
	return out, nil
}

func (c *Client) runTurn(ctx context.Context, messages []openai.ChatCompletionMessage, userPos *domain.Position, out chan<- domain.ChatFragment) {
	for round := 0; round < maxToolRounds; round++ {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    c.model,
			Messages: messages,
			Tools:    chatTools(),
		})
		if err != nil {
			out <- domain.ChatFragment{Err: fmt.Errorf("chat completion: %w", err)}
			return
		}
		if len(resp.Choices) == 0 {
			out <- domain.ChatFragment{Err: errors.New("chat completion returned no choices")}
			return
		}

		choice := resp.Choices[0].Message
		if len(choice.ToolCalls) == 0 {
			// No tools needed: the answer is already complete.
			if choice.Content != "" {
				out <- domain.ChatFragment{Text: choice.Content}
			}
			return
		}

		messages = append(messages, choice)
		for _, call := range choice.ToolCalls {
			result := c.execTool(call, userPos, out)
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}

	// Tools resolved; stream the prose answer.
	c.streamFinal(ctx, messages, out)
}

// execTool resolves one tool call, emitting map fragments as a side
// effect, and returns the textual result fed back to the model.
func (c *Client) execTool(call openai.ToolCall, userPos *domain.Position, out chan<- domain.ChatFragment) string {
	switch call.Function.Name {
	case toolGetDirections:
		var args struct {
			From string `json:"from"`
			To   string `json:"to"`
		}
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return fmt.Sprintf("error: bad arguments: %v", err)
		}
		if args.From == "" && userPos != nil {
			args.From = fmt.Sprintf("%f,%f", userPos.Lat, userPos.Lng)
		}
		route, err := c.facilities.ResolveRoute(args.From, args.To)
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		out <- domain.ChatFragment{Route: route}
		return fmt.Sprintf("route shown on the map from %s to %s", args.From, args.To)

	case toolLocateFacility:
		var args struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return fmt.Sprintf("error: bad arguments: %v", err)
		}
		f, err := c.facilities.GetByName(args.Name)
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		out <- domain.ChatFragment{FacilityID: f.ID}
		return fmt.Sprintf("map focused on %s at %.5f,%.5f", f.Name, f.Position.Lat, f.Position.Lng)

	default:
		return fmt.Sprintf("error: unknown tool %s", call.Function.Name)
	}
}

func (c *Client) streamFinal(ctx context.Context, messages []openai.ChatCompletionMessage, out chan<- domain.ChatFragment) {
	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		out <- domain.ChatFragment{Err: fmt.Errorf("chat stream: %w", err)}
		return
	}
	defer stream.Close()

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			out <- domain.ChatFragment{Err: fmt.Errorf("chat stream recv: %w", err)}
			return
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			out <- domain.ChatFragment{Text: delta}
		}
	}
}

// analysisPrompt frames the crowding verdict request. The model must
// answer with JSON matching ports.CrowdingAnalysis.
const analysisPrompt = `You manage parking for the Simhastha 2028 festival in Ujjain.
Given the current parking occupancy table, decide whether there is unusual crowding
(any lot over 95%% of capacity counts). If so, suggest alternative lots with spare
capacity, using their exact names from the table.
Respond with JSON only: {"isCrowded": boolean, "suggestedAlternatives": [string]}.

Parking table:
%s`

// AnalyzeParking asks the model for a crowding verdict over the
// serialized parking table.
func (c *Client) AnalyzeParking(ctx context.Context, parkingData string) (*ports.CrowdingAnalysis, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(analysisPrompt, parkingData)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("analysis completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("analysis completion returned no choices")
	}

	var analysis ports.CrowdingAnalysis
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &analysis); err != nil {
		slog.Warn("analysis response not valid JSON", "content", resp.Choices[0].Message.Content)
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &analysis, nil
}
