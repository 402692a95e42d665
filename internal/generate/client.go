// Package generate turns a reconstructed schema into a downloadable backend
// project scaffold by prompting an LLM step by step: models first, then the
// layers that depend on them, each prompt carrying the already generated
// files as context.
package generate

import "context"

// Client completes a prompt with an LLM. Implementations must be safe for
// concurrent use; the generator calls sequentially within one run but
// multiple runs may be in flight.
type Client interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}
