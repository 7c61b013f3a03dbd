package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edutech/naplan/internal/extract"
)

// RecoveryProvider turns free-form model text into a canonical JSON object.
type RecoveryProvider struct {
	inner Provider
}

// WithJSONRecovery wraps p so that Response.Content is always a JSON
// object. Text that yields no object becomes *ErrInvalidResponse, which
// WithRetry retries once.
func WithJSONRecovery(p Provider) Provider {
	return &RecoveryProvider{inner: p}
}

func (r *RecoveryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := r.inner.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	obj, err := extract.Object(string(resp.Content))
	if err != nil {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: err}
	}

	if req.Schema != nil && req.Schema.Strict {
		if err := ValidateShape(req.Schema, obj); err != nil {
			return nil, &ErrInvalidResponse{Content: resp.Content, Err: err}
		}
	}

	canonical, err := json.Marshal(obj)
	if err != nil {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: fmt.Errorf("re-encode object: %w", err)}
	}

	out := *resp
	out.Content = canonical
	return &out, nil
}

func (r *RecoveryProvider) ModelID() string {
	return r.inner.ModelID()
}

func (r *RecoveryProvider) Name() string {
	return ProviderName(r.inner)
}
