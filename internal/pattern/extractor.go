package pattern

import (
	"fmt"
	"unicode/utf8"

	"github.com/Aminorer/anonymizer-v3/internal/config"
	"github.com/Aminorer/anonymizer-v3/internal/entity"
	"github.com/Aminorer/anonymizer-v3/internal/logger"
	"go.uber.org/zap"
)

// Extractor runs the rule table over raw text. Extract keeps no per-request
// state; rule toggling is for configuration time, not mid-request.
type Extractor struct {
	rules   []Rule
	enabled map[string]bool
	logger  *logger.Logger
}

// New creates a pattern extractor with the detectors named in the
// configuration enabled ("all" enables every rule).
func New(cfg config.DetectionConfig, log *logger.Logger) (*Extractor, error) {
	e := &Extractor{
		rules:   DefaultRules(),
		enabled: make(map[string]bool),
		logger:  log,
	}

	if err := e.configureDetectors(cfg.Detectors); err != nil {
		return nil, fmt.Errorf("failed to configure detectors: %w", err)
	}

	log.Info("Pattern extractor initialized",
		zap.Int("total_rules", len(e.rules)),
		zap.Int("enabled_rules", e.countEnabledRules()),
	)

	return e, nil
}

// configureDetectors enables/disables rules based on configuration
func (e *Extractor) configureDetectors(detectors []string) error {
	for _, rule := range e.rules {
		e.enabled[rule.Name] = false
	}

	for _, detector := range detectors {
		if detector == "all" {
			for _, rule := range e.rules {
				e.enabled[rule.Name] = true
			}
			continue
		}

		found := false
		for _, rule := range e.rules {
			if rule.Name == detector {
				e.enabled[rule.Name] = true
				found = true
				break
			}
		}

		if !found {
			return fmt.Errorf("unknown detector: %s", detector)
		}
	}

	return nil
}

// Extract scans text with every enabled rule and returns the raw candidate
// set, one entity per match, in rule order. Candidates are not deduplicated
// here. All pattern matches carry confidence 1.0.
func (e *Extractor) Extract(text string) ([]entity.Entity, error) {
	if !utf8.ValidString(text) {
		return nil, &entity.ExtractionError{
			Detector: "pattern",
			Err:      fmt.Errorf("text is not valid UTF-8"),
		}
	}

	entities := make([]entity.Entity, 0)

	for _, rule := range e.rules {
		if !e.enabled[rule.Name] {
			continue
		}

		matches := rule.Pattern.FindAllStringIndex(text, -1)
		for _, m := range matches {
			matched := text[m[0]:m[1]]
			if rule.Validate != nil && !rule.Validate(matched) {
				e.logger.Debug("Match rejected by validator",
					zap.String("rule", rule.Name),
				)
				continue
			}

			entities = append(entities, entity.New(
				matched,
				rule.Type,
				entity.SourcePattern,
				1.0,
				rule.Replacement,
				entity.Position{Start: m[0], End: m[1]},
			))
		}

		if len(matches) > 0 {
			e.logger.Debug("Rule matched",
				zap.String("rule", rule.Name),
				zap.Int("count", len(matches)),
			)
		}
	}

	return entities, nil
}

// countEnabledRules returns the number of enabled detection rules
func (e *Extractor) countEnabledRules() int {
	count := 0
	for _, enabled := range e.enabled {
		if enabled {
			count++
		}
	}
	return count
}

// EnabledRules returns the names of the enabled rules
func (e *Extractor) EnabledRules() []string {
	var enabled []string
	for _, rule := range e.rules {
		if e.enabled[rule.Name] {
			enabled = append(enabled, rule.Name)
		}
	}
	return enabled
}

// EnableRule enables a specific detection rule
func (e *Extractor) EnableRule(ruleName string) error {
	for _, rule := range e.rules {
		if rule.Name == ruleName {
			e.enabled[ruleName] = true
			e.logger.Info("Detection rule enabled", zap.String("rule", ruleName))
			return nil
		}
	}
	return fmt.Errorf("unknown rule: %s", ruleName)
}

// DisableRule disables a specific detection rule
func (e *Extractor) DisableRule(ruleName string) error {
	if _, exists := e.enabled[ruleName]; !exists {
		return fmt.Errorf("unknown rule: %s", ruleName)
	}

	e.enabled[ruleName] = false
	e.logger.Info("Detection rule disabled", zap.String("rule", ruleName))
	return nil
}
