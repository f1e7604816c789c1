package concierge

import (
	"context"
	"io"

	"tradewinds/models"
)

// Gateway sends a transcript (oldest first, ending with the user's newest
// turn) to a generative provider and returns the reply. Failures wrap
// ErrTimeout, ErrRateLimited or ErrProviderError.
type Gateway interface {
	Complete(ctx context.Context, transcript []models.TranscriptEntry) (string, error)
}

// GatewayFactory builds a gateway bound to one validated credential.
type GatewayFactory func(ctx context.Context, credential string) (Gateway, error)

// closeGateway releases a gateway that holds a client.
func closeGateway(g Gateway) {
	if c, ok := g.(io.Closer); ok {
		_ = c.Close()
	}
}
