package answer

import "context"

// Completer is the external generative capability that turns a prompt
// into prose.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}
