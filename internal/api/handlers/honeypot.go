package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sivaneshk23/honeypot-api/internal/config"
	"github.com/sivaneshk23/honeypot-api/internal/domain/models"
	"github.com/sivaneshk23/honeypot-api/internal/domain/services"
	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

const defaultSender = "unknown"

// HoneypotHandler handles the scammer-facing engagement endpoints
type HoneypotHandler struct {
	engagement *services.EngagementService
	cfg        config.HoneypotConfig
	logger     *logger.Logger
}

// NewHoneypotHandler creates a new HoneypotHandler
func NewHoneypotHandler(svc *services.EngagementService, cfg config.HoneypotConfig, log *logger.Logger) *HoneypotHandler {
	return &HoneypotHandler{
		engagement: svc,
		cfg:        cfg,
		logger:     log.WithComponent("honeypot-handler"),
	}
}

// engageRequest is the tolerant wire shape. Callers send a mix of
// field spellings and message shapes, so everything is optional and
// normalized after decoding.
type engageRequest struct {
	SessionID    string            `json:"sessionId"`
	SessionIDAlt string            `json:"session_id"`
	Message      json.RawMessage   `json:"message"`
	Text         string            `json:"text"`
	History      []json.RawMessage `json:"conversationHistory"`
	Metadata     map[string]any    `json:"metadata"`
}

// wireMessage accepts either a message object or a bare string.
type wireMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

func decodeMessage(raw json.RawMessage) (models.Message, bool) {
	if len(raw) == 0 {
		return models.Message{}, false
	}

	var obj wireMessage
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Text != "" {
		return normalizeMessage(obj), true
	}

	var bare string
	if err := json.Unmarshal(raw, &bare); err == nil && bare != "" {
		return normalizeMessage(wireMessage{Text: bare}), true
	}

	return models.Message{}, false
}

func normalizeMessage(m wireMessage) models.Message {
	if m.Sender == "" {
		m.Sender = defaultSender
	}
	if m.Timestamp == 0 {
		m.Timestamp = time.Now().UnixMilli()
	}
	return models.Message{Sender: m.Sender, Text: m.Text, Timestamp: m.Timestamp}
}

// normalize turns the wire request into the internal form, inventing
// a session ID when the caller did not send one.
func (req *engageRequest) normalize() models.EngagementRequest {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = req.SessionIDAlt
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	msg, ok := decodeMessage(req.Message)
	if !ok && req.Text != "" {
		msg = normalizeMessage(wireMessage{Text: req.Text})
	} else if !ok {
		msg = normalizeMessage(wireMessage{})
	}

	var history []models.Message
	for _, raw := range req.History {
		if m, ok := decodeMessage(raw); ok {
			history = append(history, m)
		}
	}

	return models.EngagementRequest{
		SessionID: sessionID,
		Message:   msg,
		History:   history,
	}
}

// engageResponse is the fixed success envelope
type engageResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

// Engage handles POST /honeypot. The endpoint never surfaces internal
// failures to the caller: malformed input still gets an in-persona
// reply unless strict error mode is enabled.
func (h *HoneypotHandler) Engage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to read request body")
		if h.cfg.StrictErrors {
			h.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		h.respondEngage(w, r, engageRequest{})
		return
	}

	var req engageRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Warn().Err(err).Msg("malformed engagement request")
		if h.cfg.StrictErrors {
			h.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req = engageRequest{}
	}

	h.respondEngage(w, r, req)
}

func (h *HoneypotHandler) respondEngage(w http.ResponseWriter, r *http.Request, req engageRequest) {
	normalized := req.normalize()
	result := h.engagement.HandleMessage(r.Context(), normalized)

	h.respondJSON(w, http.StatusOK, engageResponse{
		Status: "success",
		Reply:  result.Reply,
	})
}

// sessionResponse summarizes a live session for inspection
type sessionResponse struct {
	SessionID       string    `json:"session_id"`
	ScamDetected    bool      `json:"scam_detected"`
	ScamConfidence  float64   `json:"scam_confidence"`
	MessageCount    int       `json:"message_count"`
	EngagementLevel int       `json:"engagement_level"`
	IntelligenceN   int       `json:"intelligence_items"`
	Persona         string    `json:"persona"`
	CreatedAt       time.Time `json:"created_at"`
	LastSeen        time.Time `json:"last_seen"`
}

// GetSession handles GET /honeypot/sessions/{sessionID}
func (h *HoneypotHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	state, found, err := h.engagement.SessionInfo(r.Context(), sessionID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if !found {
		h.respondError(w, http.StatusNotFound, "session not found")
		return
	}

	h.respondJSON(w, http.StatusOK, sessionResponse{
		SessionID:       state.SessionID,
		ScamDetected:    state.ScamDetected,
		ScamConfidence:  state.ScamConfidence,
		MessageCount:    len(state.Messages),
		EngagementLevel: state.EngagementLevel,
		IntelligenceN:   state.Intelligence.Total(),
		Persona:         state.Persona,
		CreatedAt:       state.CreatedAt,
		LastSeen:        state.LastSeen,
	})
}

// statsResponse is the service-wide stats payload
type statsResponse struct {
	services.EngagementStats
	ActiveSessions int `json:"active_sessions"`
}

// GetStats handles GET /honeypot/stats
func (h *HoneypotHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	active, err := h.engagement.ActiveSessions(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to count active sessions")
	}

	h.respondJSON(w, http.StatusOK, statsResponse{
		EngagementStats: h.engagement.GetStats(),
		ActiveSessions:  active,
	})
}

// respondJSON sends a JSON response
func (h *HoneypotHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *HoneypotHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
