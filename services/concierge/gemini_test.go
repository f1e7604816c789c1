package concierge

import (
	"context"
	"errors"
	"testing"

	"tradewinds/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassifyProviderError(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"resource exhausted", status.Error(codes.ResourceExhausted, "quota"), ErrRateLimited},
		{"deadline status", status.Error(codes.DeadlineExceeded, "slow"), ErrTimeout},
		{"deadline context", context.DeadlineExceeded, ErrTimeout},
		{"internal", status.Error(codes.Internal, "boom"), ErrProviderError},
		{"plain", errors.New("eof"), ErrProviderError},
		{"cancelled", context.Canceled, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyProviderError(ctx, tt.err), tt.want)
		})
	}
}

func TestClassifyProviderError_ExpiredContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()
	assert.ErrorIs(t, classifyProviderError(ctx, errors.New("stream reset")), ErrTimeout)
}

func TestGeminiRole(t *testing.T) {
	assert.Equal(t, "model", geminiRole(models.RoleAssistant))
	assert.Equal(t, "user", geminiRole(models.RoleUser))
}

func TestGeminiCredentialValidator_MalformedKey(t *testing.T) {
	v := &GeminiCredentialValidator{Model: "gemini-1.5-flash"}
	for _, key := range []string{"", "not-a-key", "AIza-too-short"} {
		got, err := v.Validate(context.Background(), key)
		require.NoError(t, err)
		assert.False(t, got.Valid, key)
	}
}
