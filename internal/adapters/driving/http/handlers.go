package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/swaggo/swag"

	"github.com/eulens/eulens/internal/core/domain"
)

// internalErrorMessage is the only detail a failed chat request reveals
const internalErrorMessage = "Internal server error"

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"Internal server error"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// ChatRequest is a user question
// @Description Chat request
type ChatRequest struct {
	Message string `json:"message" example:"What is the legal basis for processing personal data?"`
}

// ChatResponse is the grounded answer with cited sources
// @Description Chat response
type ChatResponse struct {
	Response string          `json:"response"`
	Sources  []domain.Source `json:"sources"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Reports whether every provider needed to answer is configured and the vector index is reachable
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.services == nil || s.services.VectorIndex() == nil {
		writeError(w, http.StatusServiceUnavailable, "vector index not configured")
		return
	}
	if !s.services.Config().CanAnswer() {
		writeError(w, http.StatusServiceUnavailable, "chat pipeline not fully configured")
		return
	}
	if err := s.services.VectorIndex().HealthCheck(r.Context()); err != nil {
		slog.Warn("readiness check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "vector index unavailable")
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

// handleSwaggerDoc serves the registered OpenAPI document
func (s *Server) handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusNotFound, "api documentation not registered")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

// Chat endpoints

// handleChat godoc
// @Summary      Ask a question
// @Description  Answers a question about EU law using the indexed documents and cites the relevant sources
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ChatRequest  true  "Question"
// @Success      200      {object}  ChatResponse
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      500      {object}  ErrorResponse  "Internal server error, including a malformed body or blank message"
// @Router       /api/chat [post]
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("chat request rejected", "request_id", requestID, "error", err)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	slog.Debug("chat request", "request_id", requestID, "subject", subject(r.Context()))
	answer, err := s.chatService.Answer(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			slog.Warn("chat request rejected", "request_id", requestID, "error", err)
		} else {
			slog.Error("chat request failed", "request_id", requestID, "subject", subject(r.Context()), "error", err)
		}
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: answer.Response, Sources: answer.Sources})
}

// Document endpoints

// handleListDocuments godoc
// @Summary      List ingested documents
// @Description  Returns the document registry
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.RegistryEntry
// @Failure      500  {object}  ErrorResponse
// @Router       /api/documents [get]
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ingestService.ListDocuments(r.Context())
	if err != nil {
		slog.Error("list documents failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
