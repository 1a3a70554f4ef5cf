package detection

import (
	"fmt"
	"strings"

	"github.com/sivaneshk23/honeypot-api/internal/domain/models"
	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

// Component weights and decision thresholds. These are contractual:
// changing them changes every decision the service makes.
const (
	weightKeyword    = 0.35
	weightPattern    = 0.25
	weightFinancial  = 0.20
	weightURL        = 0.10
	weightPhone      = 0.05
	weightLinguistic = 0.05

	comboBoost         = 0.2
	comboCategoryFloor = 0.6
	defaultThreshold   = 0.4
	sensitiveThreshold = 0.35
	strongFinancialBar = 0.7
	strongPatternBar   = 0.8
)

// criticalPairs are keyword-category combinations that together signal
// an active extortion or payment scam regardless of the weighted sum.
var criticalPairs = [][2]string{
	{CategoryFinancialScam, CategoryPaymentDemand},
	{CategoryUrgencyPressure, CategoryFinancialThreat},
	{CategoryAuthority, CategoryPaymentDemand},
}

// Classifier combines keyword, pattern, and signal analyzers into a
// single scam confidence score and decision.
type Classifier struct {
	keywords   *KeywordScorer
	patterns   *PatternMatcher
	urls       URLAnalyzer
	phones     PhoneAnalyzer
	financial  FinancialAnalyzer
	linguistic LinguisticAnalyzer
	logger     *logger.Logger
}

// NewClassifier creates a classifier with the default rule tables
func NewClassifier(log *logger.Logger) *Classifier {
	return &Classifier{
		keywords: NewKeywordScorer(),
		patterns: NewPatternMatcher(log),
		logger:   log.WithComponent("scam-classifier"),
	}
}

// Classify scores raw untrusted text. Empty or whitespace-only text is
// never a scam and yields an empty analysis.
func (c *Classifier) Classify(text string) (bool, float64, models.DetectionAnalysis) {
	if strings.TrimSpace(text) == "" {
		return false, 0.0, models.DetectionAnalysis{ThresholdUsed: defaultThreshold}
	}

	categoryScores, keywordScore := c.keywords.Score(text)
	patternScore, matchedPatterns := c.patterns.Score(text)
	financialScore := c.financial.Score(text)
	urlScore := c.urls.Score(text)
	phoneScore := c.phones.Score(text)
	linguisticScore, feats := c.linguistic.Score(text)

	confidence := weightKeyword*keywordScore +
		weightPattern*patternScore +
		weightFinancial*financialScore +
		weightURL*urlScore +
		weightPhone*phoneScore +
		weightLinguistic*linguisticScore

	var factors []string
	for _, name := range matchedPatterns {
		factors = append(factors, "pattern:"+name)
	}

	for _, pair := range criticalPairs {
		if categoryScores[pair[0]] > comboCategoryFloor && categoryScores[pair[1]] > comboCategoryFloor {
			confidence += comboBoost
			factors = append(factors, fmt.Sprintf("combo:%s+%s", pair[0], pair[1]))
			break
		}
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	// Strong independent signals justify a more sensitive decision
	threshold := defaultThreshold
	if financialScore > strongFinancialBar || patternScore > strongPatternBar {
		threshold = sensitiveThreshold
		factors = append(factors, "threshold:lowered")
	}

	isScam := confidence >= threshold

	analysis := models.DetectionAnalysis{
		Confidence:     confidence,
		ThresholdUsed:  threshold,
		CategoryScores: categoryScores,
		ComponentScores: models.ComponentScores{
			Keyword:    keywordScore,
			Pattern:    patternScore,
			Financial:  financialScore,
			URL:        urlScore,
			Phone:      phoneScore,
			Linguistic: linguisticScore,
		},
		Linguistic:      feats,
		DecisionFactors: factors,
	}

	c.logger.Debug().
		Float64("confidence", confidence).
		Float64("threshold", threshold).
		Bool("is_scam", isScam).
		Msg("message classified")

	return isScam, confidence, analysis
}
