package entity

import "testing"

func TestDeduplicate(t *testing.T) {
	t.Run("identical span from two detectors collapses", func(t *testing.T) {
		fromPattern := New("jean@exemple.fr", TypeEmail, SourcePattern, 1.0, "[email.anonymise@exemple.fr]", Position{Start: 10, End: 25})
		fromModel := New("jean@exemple.fr", TypeEmail, SourceModel, 0.9, "[email.anonymise@exemple.fr]", Position{Start: 10, End: 25})

		unique := Deduplicate([]Entity{fromPattern, fromModel})
		if len(unique) != 1 {
			t.Fatalf("expected 1 entity, got %d", len(unique))
		}
		if unique[0].Source != SourcePattern {
			t.Errorf("first-observed entity should win, got source %s", unique[0].Source)
		}
		if unique[0].ID != fromPattern.ID {
			t.Errorf("surviving entity should be the first observed")
		}
	})

	t.Run("same text at different offsets kept", func(t *testing.T) {
		first := New("06.12.34.56.78", TypePhone, SourcePattern, 1.0, "06 XX XX XX XX", Position{Start: 0, End: 14})
		second := New("06.12.34.56.78", TypePhone, SourcePattern, 1.0, "06 XX XX XX XX", Position{Start: 50, End: 64})

		unique := Deduplicate([]Entity{first, second})
		if len(unique) != 2 {
			t.Fatalf("expected 2 entities, got %d", len(unique))
		}
	})

	t.Run("emission order preserved", func(t *testing.T) {
		a := New("a", TypePhone, SourcePattern, 1.0, "x", Position{Start: 0, End: 1})
		b := New("b", TypeEmail, SourcePattern, 1.0, "y", Position{Start: 2, End: 3})
		c := New("c", TypePerson, SourceModel, 0.9, "z", Position{Start: 4, End: 5})

		unique := Deduplicate([]Entity{a, b, c, a, b})
		if len(unique) != 3 {
			t.Fatalf("expected 3 entities, got %d", len(unique))
		}
		for i, want := range []string{"a", "b", "c"} {
			if unique[i].Text != want {
				t.Errorf("unique[%d].Text = %q, want %q", i, unique[i].Text, want)
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		pool := []Entity{
			New("a", TypePhone, SourcePattern, 1.0, "x", Position{Start: 0, End: 1}),
			New("a", TypePhone, SourceModel, 0.9, "x", Position{Start: 0, End: 1}),
			New("b", TypeEmail, SourcePattern, 1.0, "y", Position{Start: 2, End: 3}),
		}

		once := Deduplicate(pool)
		twice := Deduplicate(once)
		if len(once) != len(twice) {
			t.Fatalf("dedup not idempotent: %d then %d", len(once), len(twice))
		}
		for i := range once {
			if once[i].ID != twice[i].ID {
				t.Errorf("entity %d changed across passes", i)
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := Deduplicate(nil); len(got) != 0 {
			t.Fatalf("expected empty result, got %+v", got)
		}
	})
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"standard", "advanced", "llm"} {
		if _, err := ParseMode(valid); err != nil {
			t.Errorf("ParseMode(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseMode("turbo"); err == nil {
		t.Error("ParseMode should reject unknown modes")
	}
}

func TestNewEntityDefaults(t *testing.T) {
	e := New("text", TypePhone, SourcePattern, 1.0, "mask", Position{Start: 3, End: 7})
	if !e.Selected {
		t.Error("new entities must default to selected")
	}
	if len(e.Positions) != 1 || e.Positions[0] != (Position{Start: 3, End: 7}) {
		t.Errorf("positions = %+v", e.Positions)
	}
	other := New("text", TypePhone, SourcePattern, 1.0, "mask", Position{Start: 3, End: 7})
	if e.ID == other.ID {
		t.Error("entity IDs must be process-unique")
	}
}
