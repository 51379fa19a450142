package entity

// dedupeKey identifies an entity by what it matched and where.
type dedupeKey struct {
	text  string
	start int
	end   int
}

// Deduplicate reduces a pool of candidate entities to a unique set keyed on
// (text, first start, first end). The first entity observed for a key wins,
// so emission order across detectors is preserved. Attributes are never
// merged between duplicates.
func Deduplicate(entities []Entity) []Entity {
	seen := make(map[dedupeKey]struct{}, len(entities))
	unique := make([]Entity, 0, len(entities))

	for _, e := range entities {
		if len(e.Positions) == 0 {
			continue
		}
		k := dedupeKey{text: e.Text, start: e.Positions[0].Start, end: e.Positions[0].End}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, e)
	}

	return unique
}
