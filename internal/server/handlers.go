package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Aminorer/anonymizer-v3/internal/anonymizer"
	"github.com/Aminorer/anonymizer-v3/internal/docgen"
	"github.com/Aminorer/anonymizer-v3/internal/engine"
	"github.com/Aminorer/anonymizer-v3/internal/entity"
	"github.com/Aminorer/anonymizer-v3/internal/llm"
	"github.com/Aminorer/anonymizer-v3/internal/websocket"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; legal documents arrive as extracted
// text, not scans, so 10 MiB is generous.
const maxBodyBytes = 10 << 20

// handleRoot returns the service banner.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Anonymiseur Juridique RGPD v3.0",
	})
}

// handleHealth reports capability availability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.processor.Health()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"model_available": health.ModelAvailable,
		"llm_available":   health.LLMAvailable,
	})
}

// handleProcess runs entity extraction over a document.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	if !s.decodeBody(w, r, &req) {
		return
	}

	if _, err := entity.ParseMode(string(req.Mode)); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.processor.Process(r.Context(), req)
	if err != nil {
		var extractionErr *entity.ExtractionError
		if errors.As(err, &extractionErr) {
			s.writeError(w, http.StatusUnprocessableEntity, extractionErr.Error())
			return
		}
		s.logger.Error("Processing failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "processing failed")
		return
	}

	s.broadcastExtraction(r, req, resp)
	s.writeJSON(w, http.StatusOK, resp)
}

// anonymizeRequest is the payload accepted by /api/anonymize and
// /api/generate-document.
type anonymizeRequest struct {
	Content  string          `json:"content"`
	Entities []entity.Entity `json:"entities"`
	Filename string          `json:"filename,omitempty"`
}

// handleAnonymize rewrites the original text with the selected entities.
func (s *Server) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	var req anonymizeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := anonymizer.Apply(req.Content, req.Entities)
	if err != nil {
		var selErr *anonymizer.InvalidSelectionError
		if errors.As(err, &selErr) {
			s.writeError(w, http.StatusUnprocessableEntity, selErr.Error())
			return
		}
		s.logger.Error("Anonymization failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "anonymization failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"anonymized_content": result,
	})
}

// handleTestLLM probes a caller-supplied endpoint configuration.
func (s *Server) handleTestLLM(w http.ResponseWriter, r *http.Request) {
	var cfg llm.Config
	if !s.decodeBody(w, r, &cfg) {
		return
	}

	connected, models := s.processor.ProbeLLM(r.Context(), &cfg)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"connected": connected,
		"models":    models,
		"config":    cfg,
	})
}

// handleLLMModels lists the models installed on an endpoint.
func (s *Server) handleLLMModels(w http.ResponseWriter, r *http.Request) {
	cfg := llm.Config{Endpoint: r.URL.Query().Get("endpoint")}
	_, models := s.processor.ProbeLLM(r.Context(), &cfg)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"models": models,
	})
}

// handleGenerateDocument streams the anonymized text as a .docx attachment.
func (s *Server) handleGenerateDocument(w http.ResponseWriter, r *http.Request) {
	var req anonymizeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := anonymizer.Apply(req.Content, req.Entities)
	if err != nil {
		var selErr *anonymizer.InvalidSelectionError
		if errors.As(err, &selErr) {
			s.writeError(w, http.StatusUnprocessableEntity, selErr.Error())
			return
		}
		s.logger.Error("Anonymization failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "anonymization failed")
		return
	}

	var buf bytes.Buffer
	if err := docgen.Write(&buf, result); err != nil {
		s.logger.Error("Document generation failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "document generation failed")
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = "document_anonymise.docx"
	}

	w.Header().Set("Content-Type", docgen.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// broadcastExtraction pushes an extraction summary to dashboard clients.
func (s *Server) broadcastExtraction(r *http.Request, req engine.Request, resp *engine.Response) {
	byType := make(map[string]int, 8)
	for _, e := range resp.Entities {
		byType[string(e.Type)]++
	}

	s.wsHub.BroadcastEvent(websocket.Event{
		Type:      websocket.EventTypeExtraction,
		Timestamp: time.Now(),
		RequestID: getRequestID(r.Context()),
		Data: websocket.ExtractionEvent{
			RequestID:    getRequestID(r.Context()),
			Filename:     req.Filename,
			Mode:         resp.ModeUsed,
			EntityCount:  resp.TotalOccurrences,
			ByType:       byType,
			ProcessingMS: resp.ProcessingTimeSeconds * 1000,
		},
	})
}

// decodeBody decodes a JSON body, writing the error response itself when
// decoding fails.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
