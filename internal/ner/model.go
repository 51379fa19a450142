// Package ner wraps a pre-loaded named-entity recognition model behind a
// narrow capability interface. The model is a heavyweight resource: it is
// loaded once at process start, injected where needed, and shared read-only
// across requests. Inference internals live behind build tags; without the
// onnx tag the capability is simply absent and extraction yields nothing.
package ner

import "context"

// Model labels emitted for the two entity categories the pipeline keeps.
const (
	LabelPerson       = "PER"
	LabelOrganization = "ORG"
)

// Span is a raw model detection before it is shaped into an entity.
// Start/End are byte offsets into the analyzed text.
type Span struct {
	Text       string
	Label      string
	Start      int
	End        int
	Confidence float64 // 0 when the model reports none
}

// Model is a loaded recognition model. Implementations must be safe for
// concurrent use and must not mutate shared state per call.
type Model interface {
	// Ready reports whether the model loaded successfully.
	Ready() bool
	// Recognize returns person/organization spans found in text.
	Recognize(ctx context.Context, text string) ([]Span, error)
	// Close releases any native resources.
	Close() error
}
