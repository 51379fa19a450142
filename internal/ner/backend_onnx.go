//go:build onnx
// +build onnx

package ner

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/Aminorer/anonymizer-v3/internal/config"
	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

// Label set of the token-classification head, in output order. BIO scheme
// over the four CoNLL categories; only PER and ORG survive into entities.
var onnxLabels = []string{
	"O",
	"B-PER", "I-PER",
	"B-ORG", "I-ORG",
	"B-LOC", "I-LOC",
	"B-MISC", "I-MISC",
}

// OnnxModel implements Model using ONNX Runtime (via yalue/onnxruntime_go)
// over an exported French token-classification model.
type OnnxModel struct {
	session    *ort.DynamicAdvancedSession
	inputNames []string
	vocab      map[string]int64
	unkID      int64
	maxLength  int
	logger     *zap.Logger
	ready      bool
	mu         sync.RWMutex
}

// NewModel initializes the ONNX Runtime backend. Requires build tag 'onnx'.
func NewModel(logger *zap.Logger, cfg config.NERConfig) Model {
	if !cfg.Enabled {
		logger.Info("NER model disabled by configuration")
		return nil
	}

	// Allow user to provide shared library path via environment variable.
	if shlib := os.Getenv("ONNXRUNTIME_SHARED_LIB"); shlib != "" {
		ort.SetSharedLibraryPath(shlib)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		logger.Error("ONNX Runtime environment init failed", zap.Error(err))
		return nil
	}

	vocab, err := loadVocab(cfg.VocabPath)
	if err != nil {
		logger.Error("Failed to load NER vocabulary", zap.Error(err), zap.String("path", cfg.VocabPath))
		return nil
	}

	inputsInfo, outputsInfo, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		logger.Error("Failed to inspect ONNX model IO", zap.Error(err), zap.String("model", cfg.ModelPath))
		return nil
	}
	if len(outputsInfo) == 0 {
		logger.Error("ONNX model reports no outputs", zap.String("model", cfg.ModelPath))
		return nil
	}

	inputNames := make([]string, 0, len(inputsInfo))
	for _, ii := range inputsInfo {
		inputNames = append(inputNames, ii.Name)
	}
	outputName := outputsInfo[0].Name

	sess, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, inputNames, []string{outputName}, nil)
	if err != nil {
		logger.Error("ONNX Runtime session creation failed", zap.Error(err), zap.String("model", cfg.ModelPath))
		return nil
	}

	maxLength := cfg.MaxLength
	if maxLength <= 0 {
		maxLength = 512
	}

	var unkID int64
	if id, ok := vocab["[UNK]"]; ok {
		unkID = id
	}

	logger.Info("ONNX NER model ready",
		zap.String("model", cfg.ModelPath),
		zap.Strings("inputs", inputNames),
		zap.Int("vocab_size", len(vocab)),
	)

	return &OnnxModel{
		session:    sess,
		inputNames: inputNames,
		vocab:      vocab,
		unkID:      unkID,
		maxLength:  maxLength,
		logger:     logger,
		ready:      true,
	}
}

// Ready reports whether the backend is initialized.
func (m *OnnxModel) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready && m.session != nil
}

// Close releases session and environment resources.
func (m *OnnxModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
	ort.DestroyEnvironment()
	m.ready = false
	return nil
}

// loadVocab reads a one-token-per-line vocabulary file; line number is the
// vocab ID.
func loadVocab(path string) (map[string]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vocab := make(map[string]int64, 32000)
	scanner := bufio.NewScanner(f)
	var id int64
	for scanner.Scan() {
		vocab[scanner.Text()] = id
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("empty vocabulary file %s", path)
	}
	return vocab, nil
}

// token is a whitespace-delimited word with its byte offsets.
type token struct {
	text  string
	start int
	end   int
}

// Recognize runs the token-classification head over text and decodes BIO
// labels into contiguous spans.
func (m *OnnxModel) Recognize(ctx context.Context, text string) ([]Span, error) {
	if !m.Ready() {
		return nil, fmt.Errorf("onnx model not ready")
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, nil
	}
	if len(tokens) > m.maxLength {
		tokens = tokens[:m.maxLength]
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	seqLen := len(tokens)
	inputIDs := make([]int64, seqLen)
	attention := make([]int64, seqLen)
	for i, t := range tokens {
		inputIDs[i] = m.lookup(t.text)
		attention[i] = 1
	}

	shape := ort.NewShape(1, int64(seqLen))
	idsTensor, err := ort.NewTensor[int64](shape, inputIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor[int64](shape, attention)
	if err != nil {
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	inputs := make([]ort.Value, 0, len(m.inputNames))
	for _, rawName := range m.inputNames {
		name := strings.ToLower(rawName)
		if strings.Contains(name, "mask") || strings.Contains(name, "attention") {
			inputs = append(inputs, maskTensor)
		} else {
			inputs = append(inputs, idsTensor)
		}
	}

	outputs := make([]ort.Value, 1)
	if err := m.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("onnx run failed: %w", err)
	}
	if len(outputs) == 0 || outputs[0] == nil {
		return nil, fmt.Errorf("onnx returned no outputs")
	}
	defer func() {
		if outputs[0] != nil {
			_ = outputs[0].Destroy()
		}
	}()

	outTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output type (want float32 tensor)")
	}
	logits := outTensor.GetData()
	outShape := outTensor.GetShape()
	if len(outShape) != 3 || int(outShape[1]) != seqLen || int(outShape[2]) != len(onnxLabels) {
		return nil, fmt.Errorf("unexpected output shape %v (want [1 %d %d])", outShape, seqLen, len(onnxLabels))
	}

	return decodeSpans(tokens, logits, text), nil
}

// lookup maps a word to a vocab ID, falling back through lowercase to [UNK].
func (m *OnnxModel) lookup(word string) int64 {
	if id, ok := m.vocab[word]; ok {
		return id
	}
	if id, ok := m.vocab[strings.ToLower(word)]; ok {
		return id
	}
	return m.unkID
}

// tokenize splits text on whitespace, recording byte offsets.
func tokenize(text string) []token {
	tokens := make([]token, 0, 64)
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, token{text: text[start:i], start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text: text[start:], start: start, end: len(text)})
	}
	return tokens
}

// decodeSpans argmaxes per-token logits and stitches B-/I- runs of the same
// category into spans. Span confidence is the mean softmax probability of
// its tokens.
func decodeSpans(tokens []token, logits []float32, text string) []Span {
	numLabels := len(onnxLabels)
	spans := make([]Span, 0, 8)

	var (
		current    *Span
		curLabel   string
		confSum    float64
		tokenCount int
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Confidence = confSum / float64(tokenCount)
		if current.Label == LabelPerson || current.Label == LabelOrganization {
			spans = append(spans, *current)
		}
		current = nil
	}

	for i, tok := range tokens {
		row := logits[i*numLabels : (i+1)*numLabels]
		best, prob := argmaxSoftmax(row)
		label := onnxLabels[best]

		switch {
		case label == "O":
			flush()
		case strings.HasPrefix(label, "B-"),
			strings.HasPrefix(label, "I-") && (current == nil || curLabel != label[2:]):
			flush()
			curLabel = label[2:]
			current = &Span{Text: tok.text, Label: curLabel, Start: tok.start, End: tok.end}
			confSum = prob
			tokenCount = 1
		default: // continuation of the current span
			current.End = tok.end
			current.Text = text[current.Start:current.End]
			confSum += prob
			tokenCount++
		}
	}
	flush()

	return spans
}

// argmaxSoftmax returns the index of the largest logit and its softmax
// probability.
func argmaxSoftmax(row []float32) (int, float64) {
	best := 0
	for i := range row {
		if row[i] > row[best] {
			best = i
		}
	}

	var sum float64
	max := float64(row[best])
	for _, v := range row {
		sum += math.Exp(float64(v) - max)
	}
	return best, 1.0 / sum
}
