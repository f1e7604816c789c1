package concierge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
)

// Validation is the outcome of checking a credential.
type Validation struct {
	Valid          bool
	BillingEnabled bool
}

// CredentialValidator checks a user-supplied credential. A returned error
// means the check could not be carried out at all.
type CredentialValidator interface {
	Validate(ctx context.Context, credential string) (Validation, error)
}

// BillingChecker decides billing capability for a structurally valid credential.
type BillingChecker interface {
	BillingEnabled(ctx context.Context, credentialRef string) (bool, error)
}

var apiKeyPattern = regexp.MustCompile(`^AIza[0-9A-Za-z_\-]{35}$`)

// CredentialRef derives the stable, non-secret reference stored in AuthState.
func CredentialRef(credential string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(credential)))
	return "cred_" + hex.EncodeToString(sum[:8])
}

// GeminiCredentialValidator checks a Gemini API key by listing models and
// then probing a generation call on the concierge model, which fails for keys
// whose project has no billing. When Billing is set the probe is replaced by
// that checker.
type GeminiCredentialValidator struct {
	Model   string
	Billing BillingChecker
	Options []option.ClientOption
}

func (v *GeminiCredentialValidator) Validate(ctx context.Context, credential string) (Validation, error) {
	key := strings.TrimSpace(credential)
	if !apiKeyPattern.MatchString(key) {
		return Validation{}, nil
	}

	opts := append([]option.ClientOption{option.WithAPIKey(key)}, v.Options...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return Validation{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer client.Close()

	if _, err := client.ListModels(ctx).Next(); err != nil && !errors.Is(err, iterator.Done) {
		if rejectsCredential(err) {
			return Validation{}, nil
		}
		return Validation{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if v.Billing != nil {
		enabled, err := v.Billing.BillingEnabled(ctx, CredentialRef(key))
		if err != nil {
			return Validation{}, fmt.Errorf("%w: %v", ErrTransport, err)
		}
		return Validation{Valid: true, BillingEnabled: enabled}, nil
	}

	model := client.GenerativeModel(v.Model)
	model.SetMaxOutputTokens(1)
	if _, err := model.GenerateContent(ctx, genai.Text("ping")); err != nil {
		switch providerCode(err) {
		case codes.ResourceExhausted, codes.FailedPrecondition, codes.PermissionDenied:
			return Validation{Valid: true, BillingEnabled: false}, nil
		}
		if rejectsCredential(err) {
			return Validation{}, nil
		}
		return Validation{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return Validation{Valid: true, BillingEnabled: true}, nil
}

func rejectsCredential(err error) bool {
	switch providerCode(err) {
	case codes.InvalidArgument, codes.Unauthenticated, codes.PermissionDenied:
		return true
	}
	return false
}
