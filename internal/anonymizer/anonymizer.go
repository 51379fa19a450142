// Package anonymizer rewrites the original text, substituting each selected
// entity's replacement for its span. The rewrite works strictly back to
// front: entities are sorted by descending start offset, so every splice
// happens at or after the spans still to be processed and never invalidates
// their stored offsets.
package anonymizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Aminorer/anonymizer-v3/internal/entity"
)

// InvalidSelectionError reports a selected entity whose span cannot be
// applied: out-of-range offsets, an inverted range, or an overlap with
// another selected span. The rewrite refuses to run rather than silently
// corrupt the text.
type InvalidSelectionError struct {
	EntityID string
	Reason   string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid selection %s: %s", e.EntityID, e.Reason)
}

// Apply returns content with every selected entity's first position replaced
// by its placeholder. Only the first position of a multi-position entity is
// applied. Selected spans must be pairwise non-overlapping and inside the
// text; violations return InvalidSelectionError and leave nothing applied.
func Apply(content string, entities []entity.Entity) (string, error) {
	selected := make([]entity.Entity, 0, len(entities))
	for _, e := range entities {
		if !e.Selected || len(e.Positions) == 0 {
			continue
		}
		selected = append(selected, e)
	}

	// Largest start offset first.
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Positions[0].Start > selected[j].Positions[0].Start
	})

	if err := validate(content, selected); err != nil {
		return "", err
	}

	var b strings.Builder
	result := content
	for _, e := range selected {
		pos := e.Positions[0]
		b.Reset()
		b.Grow(len(result) - (pos.End - pos.Start) + len(e.Replacement))
		b.WriteString(result[:pos.Start])
		b.WriteString(e.Replacement)
		b.WriteString(result[pos.End:])
		result = b.String()
	}

	return result, nil
}

// validate checks bounds and overlap on the selection, which is already
// sorted by descending start.
func validate(content string, selected []entity.Entity) error {
	prevStart := len(content) + 1
	for i, e := range selected {
		pos := e.Positions[0]
		switch {
		case pos.Start < 0 || pos.End > len(content):
			return &InvalidSelectionError{
				EntityID: e.ID,
				Reason:   fmt.Sprintf("position [%d, %d) outside text of length %d", pos.Start, pos.End, len(content)),
			}
		case pos.Start >= pos.End:
			return &InvalidSelectionError{
				EntityID: e.ID,
				Reason:   fmt.Sprintf("empty or inverted position [%d, %d)", pos.Start, pos.End),
			}
		case i > 0 && pos.End > prevStart:
			return &InvalidSelectionError{
				EntityID: e.ID,
				Reason:   fmt.Sprintf("span [%d, %d) overlaps another selected span", pos.Start, pos.End),
			}
		}
		prevStart = pos.Start
	}
	return nil
}
