// Package engine orchestrates one extraction request: patterns always run,
// the NER model joins in advanced mode when loaded, the generative endpoint
// is probed in llm mode, and the pooled candidates are reduced to a unique
// set.
package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Aminorer/anonymizer-v3/internal/config"
	"github.com/Aminorer/anonymizer-v3/internal/entity"
	"github.com/Aminorer/anonymizer-v3/internal/llm"
	"github.com/Aminorer/anonymizer-v3/internal/logger"
	"github.com/Aminorer/anonymizer-v3/internal/ner"
	"github.com/Aminorer/anonymizer-v3/internal/pattern"
)

// Request is one document to process.
type Request struct {
	Content   string                `json:"content"`
	Filename  string                `json:"filename"`
	Mode      entity.ProcessingMode `json:"mode"`
	LLMConfig *llm.Config           `json:"llm_config,omitempty"`
}

// Response carries the deduplicated entity set and processing metadata.
type Response struct {
	Entities              []entity.Entity `json:"entities"`
	ProcessingTimeSeconds float64         `json:"processing_time_seconds"`
	ModeUsed              string          `json:"mode_used"`
	TotalOccurrences      int             `json:"total_occurrences"`
	ModelAvailable        bool            `json:"model_available"`
	LLMAvailable          bool            `json:"llm_available"`
}

// Health reports capability availability at the service boundary.
type Health struct {
	ModelAvailable bool `json:"model_available"`
	LLMAvailable   bool `json:"llm_available"`
}

// Processor wires the detectors together. It is safe for concurrent use:
// the extractor and adapter are read-only after construction and all
// per-request state lives on the stack.
type Processor struct {
	patterns    *pattern.Extractor
	model       *ner.Adapter
	llmDefaults llm.Config
	logger      *logger.Logger

	// Result of the most recent reachability probe, surfaced by Health.
	llmUp atomic.Bool
}

// New creates a processor around the injected detector stages.
func New(patterns *pattern.Extractor, model *ner.Adapter, cfg config.LLMConfig, log *logger.Logger) *Processor {
	return &Processor{
		patterns: patterns,
		model:    model,
		llmDefaults: llm.Config{
			Endpoint:       cfg.Endpoint,
			Model:          cfg.Model,
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		logger: log,
	}
}

// Process runs the detector stages selected by the request mode and returns
// the unique entity set.
func (p *Processor) Process(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	// Patterns run for every mode.
	pool, err := p.patterns.Extract(req.Content)
	if err != nil {
		return nil, err
	}

	if req.Mode == entity.ModeAdvanced && p.model.Available() {
		modelEntities, err := p.model.Extract(ctx, req.Content)
		if err != nil {
			return nil, err
		}
		pool = append(pool, modelEntities...)
	}

	llmAvailable := false
	if req.Mode == entity.ModeLLM {
		client := llm.NewClient(p.llmConfig(req), p.logger)
		llmAvailable = client.CheckAvailability(ctx)
		p.llmUp.Store(llmAvailable)

		llmEntities, err := client.ExtractEntities(ctx, req.Content)
		if err != nil {
			return nil, err
		}
		pool = append(pool, llmEntities...)
	}

	unique := entity.Deduplicate(pool)
	elapsed := time.Since(start)

	byType := make(map[string]int, 8)
	for _, e := range unique {
		byType[string(e.Type)]++
	}
	p.logger.LogExtraction(string(req.Mode), byType, float64(elapsed.Nanoseconds())/1e6)

	return &Response{
		Entities:              unique,
		ProcessingTimeSeconds: elapsed.Seconds(),
		ModeUsed:              string(req.Mode),
		TotalOccurrences:      len(unique),
		ModelAvailable:        p.model.Available(),
		LLMAvailable:          llmAvailable,
	}, nil
}

// Health returns the current capability flags. The LLM flag reflects the
// last reachability probe, not a fresh one.
func (p *Processor) Health() Health {
	return Health{
		ModelAvailable: p.model.Available(),
		LLMAvailable:   p.llmUp.Load(),
	}
}

// ProbeLLM runs an availability probe with the given (or default)
// configuration and records the outcome for Health.
func (p *Processor) ProbeLLM(ctx context.Context, cfg *llm.Config) (bool, []string) {
	client := llm.NewClient(p.resolveLLMConfig(cfg), p.logger)
	available := client.CheckAvailability(ctx)
	p.llmUp.Store(available)

	models := []string{}
	if available {
		models = client.ListModels(ctx)
	}
	return available, models
}

// llmConfig resolves the per-request configuration for Process.
func (p *Processor) llmConfig(req Request) llm.Config {
	return p.resolveLLMConfig(req.LLMConfig)
}

func (p *Processor) resolveLLMConfig(cfg *llm.Config) llm.Config {
	if cfg != nil {
		return *cfg
	}
	return p.llmDefaults
}
