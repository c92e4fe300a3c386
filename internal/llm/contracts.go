package llm

import "context"

// Completer is the text completion collaborator: a prompt in, text out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// VisionCompleter answers a prompt about an image.
type VisionCompleter interface {
	CompleteWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// Client is the full completion-service surface the pipeline depends on.
type Client interface {
	Completer
	VisionCompleter
}
