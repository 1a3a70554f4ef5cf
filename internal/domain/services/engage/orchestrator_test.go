package engage

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivaneshk23/honeypot-api/internal/domain/models"
	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

func newTestOrchestrator(seed int64) *Orchestrator {
	return New(logger.NewDefault(), rand.NewSource(seed))
}

func TestOrchestrator_NeverEmpty(t *testing.T) {
	o := newTestOrchestrator(1)

	for turns := 0; turns < 20; turns++ {
		for _, conf := range []float64{0.0, 0.5, 0.75, 0.95} {
			reply := o.GenerateReply(turns, conf, models.NewIntelligence())
			require.NotEmpty(t, reply)
		}
	}
}

func TestOrchestrator_LengthBound(t *testing.T) {
	o := newTestOrchestrator(2)

	for i := 0; i < 200; i++ {
		reply := o.GenerateReply(i%10, 0.95, models.NewIntelligence())
		assert.LessOrEqual(t, len(reply), 500)
	}
}

func TestOrchestrator_StrategyProgression(t *testing.T) {
	o := newTestOrchestrator(3)

	tests := []struct {
		turns      int
		confidence float64
		financial  bool
		want       string
	}{
		{0, 0.5, false, StrategyInitialEngagement},
		{1, 0.5, false, StrategyInitialEngagement},
		{2, 0.5, false, StrategyPlayingDumb},
		{4, 0.5, false, StrategyPlayingDumb},
		{4, 0.9, false, StrategySeekingAssurance},
		{6, 0.5, false, StrategySeekingAssurance},
		{7, 0.9, false, StrategySeekingAssurance},
		{4, 0.9, true, StrategyExtractionPhase},
		{8, 0.9, false, StrategyDelayingTactics},
		{15, 0.9, true, StrategyDelayingTactics},
	}

	for _, tt := range tests {
		intel := models.NewIntelligence()
		if tt.financial {
			intel[models.ItemTypeBankAccount] = []models.ExtractedItem{
				{Value: "123456789012", Type: models.ItemTypeBankAccount, Confidence: 0.95},
			}
		}

		stage := tt.turns / 2
		if stage > 4 {
			stage = 4
		}
		if stage < 4 && intel.HasFinancial() && tt.turns > 1 {
			stage++
		}
		got := o.strategyFor(stage, tt.confidence, intel)
		assert.Equal(t, tt.want, got, "turns=%d conf=%.2f financial=%v", tt.turns, tt.confidence, tt.financial)
	}
}

func TestOrchestrator_SeededReproducibility(t *testing.T) {
	a := newTestOrchestrator(42)
	b := newTestOrchestrator(42)

	for i := 0; i < 50; i++ {
		ra := a.GenerateReply(i%8, 0.8, models.NewIntelligence())
		rb := b.GenerateReply(i%8, 0.8, models.NewIntelligence())
		require.Equal(t, ra, rb)
	}
}

func TestOrchestrator_ExtractionAsksForMissingIntel(t *testing.T) {
	o := newTestOrchestrator(7)

	// Stage 3 with financial intel present goes to extraction; over
	// many samples the missing-detail request must show up.
	intel := models.NewIntelligence()
	intel[models.ItemTypeBankAccount] = []models.ExtractedItem{
		{Value: "123456789012", Type: models.ItemTypeBankAccount, Confidence: 0.95},
	}

	sawUPIRequest := false
	for i := 0; i < 100; i++ {
		reply := o.GenerateReply(5, 0.9, intel)
		if strings.Contains(reply, "UPI ID") {
			sawUPIRequest = true
			break
		}
	}
	assert.True(t, sawUPIRequest, "extraction phase should eventually ask for the missing UPI ID")
}

func TestOrchestrator_MissingRequestOrder(t *testing.T) {
	o := newTestOrchestrator(9)

	intel := models.NewIntelligence()
	assert.Equal(t, extractionRequests["bank"], o.missingRequest(intel))

	intel[models.ItemTypeBankAccount] = []models.ExtractedItem{{Value: "1", Confidence: 0.9}}
	assert.Equal(t, extractionRequests["upi"], o.missingRequest(intel))

	intel[models.ItemTypeUPIID] = []models.ExtractedItem{{Value: "a@ybl", Confidence: 0.9}}
	assert.Equal(t, extractionRequests["link"], o.missingRequest(intel))

	intel[models.ItemTypeURL] = []models.ExtractedItem{{Value: "http://x.co", Confidence: 0.9}}
	assert.Equal(t, "", o.missingRequest(intel))
}
