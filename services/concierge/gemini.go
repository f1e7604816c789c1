package concierge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tradewinds/metrics"
	"tradewinds/models"

	genai "github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GeminiConfig configures gateways created by NewGeminiFactory.
type GeminiConfig struct {
	Model        string
	SystemPrompt string
	Timeout      time.Duration
}

// GeminiGateway is a Gateway backed by the Gemini API.
type GeminiGateway struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGeminiGateway opens a client authenticated with apiKey.
func NewGeminiGateway(ctx context.Context, apiKey string, cfg GeminiConfig) (*GeminiGateway, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.Model)
	if cfg.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(cfg.SystemPrompt)}}
	}
	return &GeminiGateway{client: client, model: model, timeout: cfg.Timeout}, nil
}

// NewGeminiFactory returns a GatewayFactory for the concierge service.
func NewGeminiFactory(cfg GeminiConfig) GatewayFactory {
	return func(ctx context.Context, credential string) (Gateway, error) {
		return NewGeminiGateway(ctx, credential, cfg)
	}
}

// Complete replays all but the last entry as chat history and sends the last
// one as the new message.
func (g *GeminiGateway) Complete(ctx context.Context, transcript []models.TranscriptEntry) (string, error) {
	if len(transcript) == 0 {
		return "", fmt.Errorf("%w: empty transcript", ErrProviderError)
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	chat := g.model.StartChat()
	history := transcript[:len(transcript)-1]
	// Gemini histories must open with a user turn; the welcome turn is UI only.
	for len(history) > 0 && history[0].Role == models.RoleAssistant {
		history = history[1:]
	}
	for _, entry := range history {
		chat.History = append(chat.History, &genai.Content{
			Role:  geminiRole(entry.Role),
			Parts: []genai.Part{genai.Text(entry.Text)},
		})
	}

	start := time.Now()
	resp, err := chat.SendMessage(ctx, genai.Text(transcript[len(transcript)-1].Text))
	metrics.ProviderLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", classifyProviderError(ctx, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response", ErrProviderError)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	reply := strings.TrimSpace(sb.String())
	if reply == "" {
		return "", fmt.Errorf("%w: response had no text", ErrProviderError)
	}
	return reply, nil
}

// Close releases the underlying client.
func (g *GeminiGateway) Close() error {
	return g.client.Close()
}

func geminiRole(r models.Role) string {
	if r == models.RoleAssistant {
		return "model"
	}
	return "user"
}

// classifyProviderError maps a Gemini failure onto the concierge taxonomy.
// Caller cancellation is passed through untouched.
func classifyProviderError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	switch providerCode(err) {
	case codes.ResourceExhausted:
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderError, err)
}

// providerCode extracts a gRPC-style status code from REST or gRPC errors.
func providerCode(err error) codes.Code {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPCode() {
		case http.StatusTooManyRequests:
			return codes.ResourceExhausted
		case http.StatusBadRequest:
			return codes.InvalidArgument
		case http.StatusUnauthorized:
			return codes.Unauthenticated
		case http.StatusForbidden:
			return codes.PermissionDenied
		case http.StatusGatewayTimeout:
			return codes.DeadlineExceeded
		}
		if st := apiErr.GRPCStatus(); st != nil {
			return st.Code()
		}
	}
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	return codes.Unknown
}
