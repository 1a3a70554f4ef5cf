package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sivaneshk23/honeypot-api/internal/config"
	"github.com/sivaneshk23/honeypot-api/internal/domain/models"
	"github.com/sivaneshk23/honeypot-api/internal/domain/services/detection"
	"github.com/sivaneshk23/honeypot-api/internal/infrastructure/sessions"
	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

// honeypotSender marks messages authored by the honeypot persona in
// the stored conversation history.
const honeypotSender = "honeypot"

// fallbackReply keeps the scammer engaged even when the pipeline
// panics on a pathological input.
const fallbackReply = "I'm sorry, my phone is acting up and I didn't catch that. Can you please tell me again what I need to do?"

const fallbackConfidence = 0.85

// Classifier decides whether a message is a scam attempt
type Classifier interface {
	Classify(text string) (bool, float64, models.DetectionAnalysis)
}

// Extractor pulls structured intelligence out of a message
type Extractor interface {
	Extract(text string) models.Intelligence
}

// Replier generates the persona's next reply
type Replier interface {
	GenerateReply(turns int, confidence float64, intel models.Intelligence) string
}

// EngagementStats tracks service activity for the stats endpoint
type EngagementStats struct {
	TotalMessages    int       `json:"total_messages"`
	ScamMessages     int       `json:"scam_messages"`
	FallbackReplies  int       `json:"fallback_replies"`
	ReportsDelivered int       `json:"reports_delivered"`
	ReportsFailed    int       `json:"reports_failed"`
	LastMessageAt    time.Time `json:"last_message_at"`
}

// EngagementService runs the full honeypot pipeline for each inbound
// message: classify, extract, update session state, and reply in
// persona. When a scam session reaches the engagement threshold it is
// finalized exactly once and the report delivered asynchronously.
type EngagementService struct {
	classifier Classifier
	extractor  Extractor
	replier    Replier
	keywords   *detection.KeywordScorer
	store      sessions.Store
	reporter   Reporter
	cfg        config.HoneypotConfig
	callback   config.CallbackConfig
	logger     *logger.Logger

	mu    sync.RWMutex
	stats EngagementStats
}

// NewEngagementService wires the pipeline together. reporter may be
// nil when finalization callbacks are disabled.
func NewEngagementService(
	classifier Classifier,
	extractor Extractor,
	replier Replier,
	store sessions.Store,
	reporter Reporter,
	cfg config.HoneypotConfig,
	callback config.CallbackConfig,
	log *logger.Logger,
) *EngagementService {
	return &EngagementService{
		classifier: classifier,
		extractor:  extractor,
		replier:    replier,
		keywords:   detection.NewKeywordScorer(),
		store:      store,
		reporter:   reporter,
		cfg:        cfg,
		callback:   callback,
		logger:     log.WithComponent("engagement-service"),
	}
}

// HandleMessage processes one inbound message and always produces an
// engaging result, falling back to a canned cautious reply if the
// pipeline fails.
func (s *EngagementService) HandleMessage(ctx context.Context, req models.EngagementRequest) (result models.EngagementResult) {
	log := s.logger.WithSession(req.SessionID)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("engagement pipeline panicked, using fallback reply")
			s.recordFallback()
			result = models.EngagementResult{
				IsScam:       true,
				Confidence:   fallbackConfidence,
				Reply:        fallbackReply,
				Intelligence: models.NewIntelligence(),
			}
		}
	}()

	var (
		report     *models.FinalReport
		turnIsScam bool
	)

	_, err := s.store.Update(ctx, req.SessionID, func(state *models.ConversationState) error {
		// First sight of a session: trust the caller's history
		if len(state.Messages) == 0 && len(req.History) > 0 {
			state.Messages = append(state.Messages, req.History...)
		}
		state.Messages = append(state.Messages, req.Message)
		state.LastSeen = time.Now()

		isScam, confidence, analysis := s.classifier.Classify(req.Message.Text)
		turnIsScam = isScam
		intel := s.extractor.Extract(req.Message.Text)
		state.Intelligence.Merge(intel)
		state.Latch(confidence, s.cfg.ScamLatchThreshold)
		if state.ScamDetected {
			state.EngagementLevel++
		}

		effective := confidence
		if state.ScamDetected && state.ScamConfidence > effective {
			effective = state.ScamConfidence
		}

		turns := inboundCount(state.Messages)
		reply := s.replier.GenerateReply(turns, effective, state.Intelligence)
		state.Messages = append(state.Messages, models.NewMessage(honeypotSender, reply))

		if state.ScamDetected && !state.Finalized && state.EngagementLevel >= s.cfg.EngagementThreshold {
			report = s.buildReport(state)
			state.Finalized = true
		}

		result = models.EngagementResult{
			IsScam:          isScam,
			Confidence:      confidence,
			Reply:           reply,
			Intelligence:    state.Intelligence.Clone(),
			EngagementLevel: state.EngagementLevel,
		}

		log.Debug().
			Bool("is_scam", isScam).
			Float64("confidence", confidence).
			Float64("threshold", analysis.ThresholdUsed).
			Int("engagement_level", state.EngagementLevel).
			Msg("message processed")
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("session update failed, using fallback reply")
		s.recordFallback()
		return models.EngagementResult{
			IsScam:       true,
			Confidence:   fallbackConfidence,
			Reply:        fallbackReply,
			Intelligence: models.NewIntelligence(),
		}
	}

	// Count the turn's own verdict, not the session's latched state
	s.recordMessage(turnIsScam)

	// Delivery happens outside the session lock so a slow endpoint
	// never stalls the conversation.
	if report != nil {
		go s.finalize(report)
	}

	return result
}

// finalize delivers the report once and tears the session down. The
// session is removed even when delivery fails.
func (s *EngagementService) finalize(report *models.FinalReport) {
	log := s.logger.WithSession(report.SessionID)

	if s.reporter != nil && s.callback.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), s.callback.Timeout)
		defer cancel()

		if err := s.reporter.Deliver(ctx, report); err != nil {
			log.Warn().Err(err).Msg("final report delivery failed")
			s.recordReport(false)
		} else {
			s.recordReport(true)
		}
	}

	if err := s.store.Delete(context.Background(), report.SessionID); err != nil {
		log.Warn().Err(err).Msg("failed to delete finalized session")
	}
}

// buildReport flattens the session's intelligence into the external
// report schema. Called while the session is still held.
func (s *EngagementService) buildReport(state *models.ConversationState) *models.FinalReport {
	keywordSet := map[string]bool{}
	for _, msg := range state.Messages {
		if msg.Sender == honeypotSender {
			continue
		}
		for _, kw := range s.keywords.Matches(msg.Text) {
			keywordSet[kw] = true
		}
	}
	keywords := make([]string, 0, len(keywordSet))
	for kw := range keywordSet {
		keywords = append(keywords, kw)
	}

	intel := models.ReportIntelligence{
		BankAccounts:       state.Intelligence.Values(models.ItemTypeBankAccount),
		UPIIDs:             state.Intelligence.Values(models.ItemTypeUPIID),
		PhishingLinks:      state.Intelligence.Values(models.ItemTypeURL),
		PhoneNumbers:       state.Intelligence.Values(models.ItemTypePhone),
		SuspiciousKeywords: keywords,
	}

	notes := fmt.Sprintf(
		"Engaged scammer for %d turns as persona %q. Scam confidence peaked at %.2f. Collected %d bank accounts, %d UPI IDs, %d links, %d phone numbers.",
		state.EngagementLevel,
		state.Persona,
		state.ScamConfidence,
		len(intel.BankAccounts),
		len(intel.UPIIDs),
		len(intel.PhishingLinks),
		len(intel.PhoneNumbers),
	)

	return &models.FinalReport{
		SessionID:              state.SessionID,
		ScamDetected:           state.ScamDetected,
		TotalMessagesExchanged: len(state.Messages),
		ExtractedIntelligence:  intel,
		AgentNotes:             notes,
	}
}

// SessionInfo returns a clone of a session's state for the inspection
// endpoint.
func (s *EngagementService) SessionInfo(ctx context.Context, sessionID string) (*models.ConversationState, bool, error) {
	return s.store.Get(ctx, sessionID)
}

// ActiveSessions reports how many sessions are live.
func (s *EngagementService) ActiveSessions(ctx context.Context) (int, error) {
	return s.store.Len(ctx)
}

// GetStats returns a snapshot of service activity.
func (s *EngagementService) GetStats() EngagementStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *EngagementService) recordMessage(scam bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.TotalMessages++
	if scam {
		s.stats.ScamMessages++
	}
	s.stats.LastMessageAt = time.Now()
}

func (s *EngagementService) recordFallback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.TotalMessages++
	s.stats.FallbackReplies++
	s.stats.LastMessageAt = time.Now()
}

func (s *EngagementService) recordReport(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.stats.ReportsDelivered++
	} else {
		s.stats.ReportsFailed++
	}
}

func inboundCount(msgs []models.Message) int {
	n := 0
	for _, m := range msgs {
		if m.Sender != honeypotSender {
			n++
		}
	}
	return n
}
