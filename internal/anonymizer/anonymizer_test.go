package anonymizer

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/Aminorer/anonymizer-v3/internal/entity"
)

func TestApplyScenario(t *testing.T) {
	content := "Contactez-moi au 06.12.34.56.78 ou jean@exemple.fr."
	entities := []entity.Entity{
		entity.New("06.12.34.56.78", entity.TypePhone, entity.SourcePattern, 1.0, "06 XX XX XX XX",
			entity.Position{Start: strings.Index(content, "06."), End: strings.Index(content, "06.") + len("06.12.34.56.78")}),
		entity.New("jean@exemple.fr", entity.TypeEmail, entity.SourcePattern, 1.0, "[email.anonymise@exemple.fr]",
			entity.Position{Start: strings.Index(content, "jean@"), End: strings.Index(content, "jean@") + len("jean@exemple.fr")}),
	}

	got, err := Apply(content, entities)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := "Contactez-moi au 06 XX XX XX XX ou [email.anonymise@exemple.fr]."
	if got != want {
		t.Errorf("Apply = %q, want %q", got, want)
	}
}

func TestApplyLengthProperty(t *testing.T) {
	content := "Le SIRET 73282932000074 et le dossier n° 2023-456."
	entities := []entity.Entity{
		entity.New("73282932000074", entity.TypeSiret, entity.SourcePattern, 1.0, "[SIRET Anonymisé]",
			entity.Position{Start: 9, End: 23}),
		entity.New("dossier n° 2023-456", entity.TypeLegal, entity.SourcePattern, 1.0, "[Référence Anonymisée]",
			entity.Position{Start: 30, End: 30 + len("dossier n° 2023-456")}),
	}

	got, err := Apply(content, entities)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	wantLen := len(content)
	for _, e := range entities {
		wantLen += len(e.Replacement) - (e.Positions[0].End - e.Positions[0].Start)
	}
	if len(got) != wantLen {
		t.Errorf("result length = %d, want %d (%q)", len(got), wantLen, got)
	}
}

func TestApplyOrderIndependent(t *testing.T) {
	content := "aaa bbb ccc ddd eee"
	entities := []entity.Entity{
		entity.New("aaa", entity.TypePhone, entity.SourcePattern, 1.0, "[1]", entity.Position{Start: 0, End: 3}),
		entity.New("ccc", entity.TypePhone, entity.SourcePattern, 1.0, "[deux]", entity.Position{Start: 8, End: 11}),
		entity.New("eee", entity.TypePhone, entity.SourcePattern, 1.0, "[3]", entity.Position{Start: 16, End: 19}),
	}

	want, err := Apply(content, entities)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]entity.Entity, len(entities))
		copy(shuffled, entities)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got, err := Apply(content, shuffled)
		if err != nil {
			t.Fatalf("Apply failed on shuffle %d: %v", i, err)
		}
		if got != want {
			t.Errorf("shuffle %d: Apply = %q, want %q", i, got, want)
		}
	}
}

func TestApplySkipsUnselected(t *testing.T) {
	content := "aaa bbb"
	selected := entity.New("aaa", entity.TypePhone, entity.SourcePattern, 1.0, "[X]", entity.Position{Start: 0, End: 3})
	unselected := entity.New("bbb", entity.TypePhone, entity.SourcePattern, 1.0, "[Y]", entity.Position{Start: 4, End: 7})
	unselected.Selected = false

	got, err := Apply(content, []entity.Entity{selected, unselected})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got != "[X] bbb" {
		t.Errorf("Apply = %q, want %q", got, "[X] bbb")
	}
}

func TestApplyOnlyFirstPosition(t *testing.T) {
	content := "jean ... jean"
	e := entity.New("jean", entity.TypePerson, entity.SourceModel, 0.9, "Personne A", entity.Position{Start: 0, End: 4})
	e.Positions = append(e.Positions, entity.Position{Start: 9, End: 13})

	got, err := Apply(content, []entity.Entity{e})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got != "Personne A ... jean" {
		t.Errorf("Apply = %q, want only the first occurrence replaced", got)
	}
}

func TestApplyValidation(t *testing.T) {
	content := "0123456789"

	tests := []struct {
		name string
		pos  []entity.Position
	}{
		{
			name: "end beyond text",
			pos:  []entity.Position{{Start: 5, End: 15}},
		},
		{
			name: "negative start",
			pos:  []entity.Position{{Start: -1, End: 3}},
		},
		{
			name: "inverted range",
			pos:  []entity.Position{{Start: 6, End: 6}},
		},
		{
			name: "overlapping spans",
			pos:  []entity.Position{{Start: 0, End: 5}, {Start: 3, End: 8}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := make([]entity.Entity, 0, len(tt.pos))
			for _, p := range tt.pos {
				entities = append(entities, entity.New(content[max(0, p.Start):min(len(content), max(p.Start, p.End))],
					entity.TypePhone, entity.SourceManual, 1.0, "[X]", p))
			}

			_, err := Apply(content, entities)
			var selErr *InvalidSelectionError
			if !errors.As(err, &selErr) {
				t.Fatalf("expected InvalidSelectionError, got %v", err)
			}
		})
	}
}

func TestApplyAdjacentSpansAllowed(t *testing.T) {
	content := "aabb"
	entities := []entity.Entity{
		entity.New("aa", entity.TypePhone, entity.SourcePattern, 1.0, "[A]", entity.Position{Start: 0, End: 2}),
		entity.New("bb", entity.TypePhone, entity.SourcePattern, 1.0, "[B]", entity.Position{Start: 2, End: 4}),
	}

	got, err := Apply(content, entities)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got != "[A][B]" {
		t.Errorf("Apply = %q, want %q", got, "[A][B]")
	}
}

func TestApplyNoSelection(t *testing.T) {
	got, err := Apply("inchangé", nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got != "inchangé" {
		t.Errorf("Apply = %q, want original text", got)
	}
}
