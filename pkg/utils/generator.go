package utils

import (
	"context"
	"errors"
	"net"
)

// SamplingConfig mirrors the generation knobs both providers understand.
type SamplingConfig struct {
	Temperature     float32 `json:"temperature"`
	TopK            int32   `json:"top_k"`
	TopP            float32 `json:"top_p"`
	MaxOutputTokens int32   `json:"max_output_tokens"`
	JSONOnly        bool    `json:"json_only"`
}

// TextGenerator is the generative text service collaborator.
// Implementations return errors wrapping ErrServiceUnavailable or ErrServiceError.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, cfg SamplingConfig) (string, error)
	Model() string
}

// isTransportFailure reports whether err came from the network or a deadline
// rather than from a response the service sent back.
func isTransportFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
