package ner

import (
	"context"
	"errors"
	"testing"

	"github.com/Aminorer/anonymizer-v3/internal/entity"
	"github.com/Aminorer/anonymizer-v3/internal/logger"
	"go.uber.org/zap"
)

// fakeModel satisfies Model without any native runtime.
type fakeModel struct {
	spans []Span
	err   error
	ready bool
}

func (m *fakeModel) Ready() bool { return m.ready }
func (m *fakeModel) Recognize(ctx context.Context, text string) ([]Span, error) {
	return m.spans, m.err
}
func (m *fakeModel) Close() error { return nil }

func nopLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func TestAdapterUnavailable(t *testing.T) {
	t.Run("nil model", func(t *testing.T) {
		a := NewAdapter(nil, nopLogger())
		if a.Available() {
			t.Error("nil model must be unavailable")
		}
		entities, err := a.Extract(context.Background(), "Maître Jean Dupont")
		if err != nil {
			t.Fatalf("unavailable capability must not error, got %v", err)
		}
		if len(entities) != 0 {
			t.Fatalf("expected no entities, got %+v", entities)
		}
	})

	t.Run("model not ready", func(t *testing.T) {
		a := NewAdapter(&fakeModel{ready: false}, nopLogger())
		entities, err := a.Extract(context.Background(), "texte")
		if err != nil || len(entities) != 0 {
			t.Fatalf("expected empty result, got %v / %v", entities, err)
		}
	})
}

func TestAdapterShapesEntities(t *testing.T) {
	model := &fakeModel{
		ready: true,
		spans: []Span{
			{Text: "Jean Dupont", Label: LabelPerson, Start: 0, End: 11},
			{Text: "Cabinet Martin", Label: LabelOrganization, Start: 20, End: 34},
			{Text: "Paris", Label: "LOC", Start: 40, End: 45},
			{Text: "Marie Curie", Label: LabelPerson, Start: 50, End: 61, Confidence: 0.97},
		},
	}
	a := NewAdapter(model, nopLogger())

	entities, err := a.Extract(context.Background(), "whatever")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(entities) != 3 {
		t.Fatalf("expected 3 entities (LOC dropped), got %d: %+v", len(entities), entities)
	}

	person := entities[0]
	if person.Type != entity.TypePerson || person.Source != entity.SourceModel {
		t.Errorf("person shaped wrong: %+v", person)
	}
	if person.Confidence != 0.9 {
		t.Errorf("default person confidence = %f, want 0.9", person.Confidence)
	}
	if person.Replacement != "Personne A" {
		t.Errorf("person replacement = %q, want %q", person.Replacement, "Personne A")
	}

	org := entities[1]
	if org.Type != entity.TypeOrganization {
		t.Errorf("org type = %s", org.Type)
	}
	if org.Confidence != 0.85 {
		t.Errorf("default org confidence = %f, want 0.85", org.Confidence)
	}
	if org.Replacement != "Organisation A" {
		t.Errorf("org replacement = %q, want %q", org.Replacement, "Organisation A")
	}

	second := entities[2]
	if second.Confidence != 0.97 {
		t.Errorf("model-reported confidence = %f, want 0.97", second.Confidence)
	}
	if second.Replacement != "Personne B" {
		t.Errorf("second person replacement = %q, want %q", second.Replacement, "Personne B")
	}
}

func TestAdapterNamingScopedPerCall(t *testing.T) {
	model := &fakeModel{
		ready: true,
		spans: []Span{{Text: "Jean Dupont", Label: LabelPerson, Start: 0, End: 11}},
	}
	a := NewAdapter(model, nopLogger())

	for i := 0; i < 3; i++ {
		entities, err := a.Extract(context.Background(), "whatever")
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if entities[0].Replacement != "Personne A" {
			t.Fatalf("call %d: replacement = %q; naming counters must reset per call", i, entities[0].Replacement)
		}
	}
}

func TestAdapterWrapsModelErrors(t *testing.T) {
	a := NewAdapter(&fakeModel{ready: true, err: errors.New("inference blew up")}, nopLogger())

	_, err := a.Extract(context.Background(), "texte")
	var extractionErr *entity.ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if extractionErr.Detector != "ner" {
		t.Errorf("detector = %q, want ner", extractionErr.Detector)
	}
}
