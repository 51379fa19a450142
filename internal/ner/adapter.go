package ner

import (
	"context"

	"github.com/Aminorer/anonymizer-v3/internal/entity"
	"github.com/Aminorer/anonymizer-v3/internal/logger"
	"go.uber.org/zap"
)

// Default confidences used when the model does not report its own.
const (
	defaultPersonConfidence = 0.9
	defaultOrgConfidence    = 0.85
)

// Adapter shapes raw model spans into entities. The adapter itself is
// stateless; naming counters are allocated fresh inside each Extract call.
type Adapter struct {
	model  Model
	logger *logger.Logger
}

// NewAdapter wraps an injected model. A nil model is a valid, permanently
// unavailable capability.
func NewAdapter(model Model, log *logger.Logger) *Adapter {
	return &Adapter{model: model, logger: log}
}

// Available reports whether the underlying model loaded successfully.
func (a *Adapter) Available() bool {
	return a.model != nil && a.model.Ready()
}

// Extract runs the model over text and returns person/organization
// entities. An unavailable model yields an empty result, never an error.
func (a *Adapter) Extract(ctx context.Context, text string) ([]entity.Entity, error) {
	if !a.Available() {
		return nil, nil
	}

	spans, err := a.model.Recognize(ctx, text)
	if err != nil {
		return nil, &entity.ExtractionError{Detector: "ner", Err: err}
	}

	names := &namer{}
	entities := make([]entity.Entity, 0, len(spans))
	for _, span := range spans {
		var (
			entityType entity.Type
			confidence float64
		)
		switch span.Label {
		case LabelPerson:
			entityType = entity.TypePerson
			confidence = defaultPersonConfidence
		case LabelOrganization:
			entityType = entity.TypeOrganization
			confidence = defaultOrgConfidence
		default:
			continue
		}
		if span.Confidence > 0 {
			confidence = span.Confidence
		}

		entities = append(entities, entity.New(
			span.Text,
			entityType,
			entity.SourceModel,
			confidence,
			names.next(span.Label),
			entity.Position{Start: span.Start, End: span.End},
		))
	}

	a.logger.Debug("Model extraction completed",
		zap.Int("spans", len(spans)),
		zap.Int("entities", len(entities)),
	)

	return entities, nil
}
