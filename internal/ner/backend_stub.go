//go:build !onnx
// +build !onnx

package ner

import (
	"github.com/Aminorer/anonymizer-v3/internal/config"
	"go.uber.org/zap"
)

// Stub implementation used when the 'onnx' build tag is not set. Returning
// nil keeps the default build free of CGO dependencies; the adapter treats a
// nil model as an unavailable capability.
func NewModel(logger *zap.Logger, cfg config.NERConfig) Model {
	logger.Info("NER model support not compiled in; model-based extraction disabled")
	return nil
}
