package engage

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sivaneshk23/honeypot-api/internal/domain/models"
	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

const maxReplyLength = 500

// Orchestrator produces persona replies that keep a suspected scammer
// engaged. All randomness flows through a single seeded source so
// conversations are reproducible in tests.
type Orchestrator struct {
	logger *logger.Logger
	mu     sync.Mutex
	rng    *rand.Rand
}

// New creates an orchestrator. A nil source falls back to a
// time-seeded one.
func New(log *logger.Logger, src rand.Source) *Orchestrator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Orchestrator{
		logger: log.WithComponent("response-orchestrator"),
		rng:    rand.New(src),
	}
}

// GenerateReply picks a strategy from how far the conversation has
// progressed and what intelligence has already been captured, then
// composes a reply under the length limit. turns is the number of
// messages exchanged so far.
func (o *Orchestrator) GenerateReply(turns int, confidence float64, intel models.Intelligence) string {
	o.mu.Lock()
	defer o.mu.Unlock()

	stage := turns / 2
	if stage > 4 {
		stage = 4
	}
	// Financial details on the table mean the scammer is invested,
	// move the script along.
	if stage < 4 && intel.HasFinancial() && turns > 1 {
		stage++
	}

	strategy := o.strategyFor(stage, confidence, intel)
	reply := o.pick(strategyLines[strategy])

	reply = o.tonePrefix(turns, confidence) + reply

	if o.rng.Float64() < 0.3 {
		reply += " " + o.pick(fillers)
	}

	if strategy == StrategyExtractionPhase && o.rng.Float64() < 0.5 {
		if req := o.missingRequest(intel); req != "" {
			reply += " " + req
		}
	}

	if confidence > 0.8 && o.rng.Float64() < 0.4 {
		reply += " " + o.pick(urgencyResponses)
	}

	if len(reply) > maxReplyLength {
		reply = strings.TrimSpace(reply[:maxReplyLength-3]) + "..."
	}

	o.logger.Debug().Str("strategy", strategy).Int("turns", turns).Msg("reply generated")
	return reply
}

func (o *Orchestrator) strategyFor(stage int, confidence float64, intel models.Intelligence) string {
	switch stage {
	case 0:
		return StrategyInitialEngagement
	case 1:
		return StrategyPlayingDumb
	case 2:
		if confidence > 0.7 {
			return StrategySeekingAssurance
		}
		return StrategyPlayingDumb
	case 3:
		if intel.HasFinancial() {
			return StrategyExtractionPhase
		}
		return StrategySeekingAssurance
	default:
		return StrategyDelayingTactics
	}
}

func (o *Orchestrator) tonePrefix(turns int, confidence float64) string {
	switch {
	case confidence > 0.7:
		return o.pick(tonePrefixes["concerned"])
	case turns <= 2:
		return o.pick(tonePrefixes["confused"])
	default:
		return o.pick(tonePrefixes["agreeable"])
	}
}

// missingRequest asks for the most valuable intelligence type the
// scammer has not provided yet.
func (o *Orchestrator) missingRequest(intel models.Intelligence) string {
	if len(intel[models.ItemTypeBankAccount]) == 0 {
		return extractionRequests["bank"]
	}
	if len(intel[models.ItemTypeUPIID]) == 0 {
		return extractionRequests["upi"]
	}
	if len(intel[models.ItemTypeURL]) == 0 {
		return extractionRequests["link"]
	}
	return ""
}

func (o *Orchestrator) pick(lines []string) string {
	return lines[o.rng.Intn(len(lines))]
}
