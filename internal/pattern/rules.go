package pattern

import (
	"regexp"

	"github.com/Aminorer/anonymizer-v3/internal/entity"
)

// Rule represents a single detection rule: a compiled grammar, the entity
// type it produces and the placeholder substituted for every match. An
// optional Validate hook can reject a textual match (used to gate SIRET on
// its checksum); rejected matches are dropped silently.
type Rule struct {
	Name        string
	Type        entity.Type
	Pattern     *regexp.Regexp
	Replacement string
	Validate    func(string) bool
}

// Placeholder literals substituted for pattern matches. The phone mask is
// the same fixed string for every match, not a per-entity placeholder.
const (
	PhoneReplacement   = "06 XX XX XX XX"
	EmailReplacement   = "[email.anonymise@exemple.fr]"
	SiretReplacement   = "[SIRET Anonymisé]"
	SSNReplacement     = "[N° Sécurité Sociale Anonymisé]"
	AddressReplacement = "[Adresse Anonymisée]"
	LegalReplacement   = "[Référence Anonymisée]"
)

// DefaultRules returns the French-locale detection rules. Multiple rules may
// share a category (two phone grammars, two address grammars, three legal
// grammars); each produces candidates independently and overlaps collapse
// during deduplication.
func DefaultRules() []Rule {
	return []Rule{
		{
			// 06.12.34.56.78, 06 12 34 56 78, 0612345678
			Name:        "phone_fr",
			Type:        entity.TypePhone,
			Pattern:     regexp.MustCompile(`\b0[1-9](?:[.\-\s]?\d{2}){4}\b`),
			Replacement: PhoneReplacement,
		},
		{
			// +33 6 12 34 56 78
			Name:        "phone_intl",
			Type:        entity.TypePhone,
			Pattern:     regexp.MustCompile(`\+33[1-9](?:[.\-\s]?\d{2}){4}\b`),
			Replacement: PhoneReplacement,
		},
		{
			Name:        "email",
			Type:        entity.TypeEmail,
			Pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
			Replacement: EmailReplacement,
		},
		{
			// 14 digits, accepted only when the checksum validates
			Name:        "siret",
			Type:        entity.TypeSiret,
			Pattern:     regexp.MustCompile(`\b\d{14}\b`),
			Replacement: SiretReplacement,
			Validate:    LuhnValid,
		},
		{
			// French social security number: 1 or 2 followed by 12 digits
			Name:        "ssn",
			Type:        entity.TypeSSN,
			Pattern:     regexp.MustCompile(`\b[12]\d{12}\b`),
			Replacement: SSNReplacement,
		},
		{
			// 12 rue de la Paix
			Name:        "address_street",
			Type:        entity.TypeAddress,
			Pattern:     regexp.MustCompile(`(?i)\b\d+\s+(?:rue|avenue|boulevard|place|impasse|allée|chemin|route)\s+[A-Za-z\s]+\b`),
			Replacement: AddressReplacement,
		},
		{
			// 75001 Paris
			Name:        "address_postal",
			Type:        entity.TypeAddress,
			Pattern:     regexp.MustCompile(`(?i)\b\d{5}\s+[A-Z][a-zA-Z\s-]+\b`),
			Replacement: AddressReplacement,
		},
		{
			// RG 21/01234
			Name:        "legal_rg",
			Type:        entity.TypeLegal,
			Pattern:     regexp.MustCompile(`(?i)\bRG\s+\d+/\d+\b`),
			Replacement: LegalReplacement,
		},
		{
			// dossier n° 2023-456
			Name:        "legal_dossier",
			Type:        entity.TypeLegal,
			Pattern:     regexp.MustCompile(`(?i)\bdossier\s+n°?\s*\d+[-/]\d+\b`),
			Replacement: LegalReplacement,
		},
		{
			// article 700, article 145-2
			Name:        "legal_article",
			Type:        entity.TypeLegal,
			Pattern:     regexp.MustCompile(`(?i)\barticle\s+\d+(?:-\d+)?\b`),
			Replacement: LegalReplacement,
		},
	}
}
