package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// Type classifies a detected span.
type Type string

const (
	TypePhone        Type = "phone"
	TypeEmail        Type = "email"
	TypeSiret        Type = "siret"
	TypeSSN          Type = "ssn"
	TypeAddress      Type = "address"
	TypeLegal        Type = "legal"
	TypePerson       Type = "person"
	TypeOrganization Type = "organization"
)

// Source tags the detector that produced an entity.
type Source string

const (
	SourcePattern Source = "pattern"
	SourceModel   Source = "model"
	SourceLLM     Source = "llm"
	SourceManual  Source = "manual"
)

// Position is a half-open [Start, End) byte range into the original text.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Entity is a single detected sensitive span and its replacement. Entities
// are immutable after creation except for the Selected flag, which the
// caller may toggle between extraction and rewrite.
type Entity struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Type        Type       `json:"type"`
	Source      Source     `json:"source"`
	Confidence  float64    `json:"confidence"`
	Replacement string     `json:"replacement"`
	Positions   []Position `json:"positions"`
	Selected    bool       `json:"selected"`
}

// New builds an entity with a fresh process-unique ID, a single position and
// Selected set to true.
func New(text string, t Type, src Source, confidence float64, replacement string, pos Position) Entity {
	return Entity{
		ID:          uuid.NewString(),
		Text:        text,
		Type:        t,
		Source:      src,
		Confidence:  confidence,
		Replacement: replacement,
		Positions:   []Position{pos},
		Selected:    true,
	}
}

// ProcessingMode selects which detector stages run for a request.
type ProcessingMode string

const (
	// ModeStandard runs only the pattern extractor.
	ModeStandard ProcessingMode = "standard"
	// ModeAdvanced additionally runs the NER model when it is loaded.
	ModeAdvanced ProcessingMode = "advanced"
	// ModeLLM is reserved for generative-model extraction; it currently
	// behaves like ModeStandard plus an availability probe.
	ModeLLM ProcessingMode = "llm"
)

// ParseMode validates a wire-level mode string.
func ParseMode(s string) (ProcessingMode, error) {
	switch ProcessingMode(s) {
	case ModeStandard, ModeAdvanced, ModeLLM:
		return ProcessingMode(s), nil
	}
	return "", fmt.Errorf("unknown processing mode: %q", s)
}

// ExtractionError reports a detector-level failure so callers never see
// partial results from a half-finished pass.
type ExtractionError struct {
	Detector string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("detector %s failed: %v", e.Detector, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
