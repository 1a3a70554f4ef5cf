package detection

import (
	"regexp"

	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

// ScamPattern is a single weighted structural pattern
type ScamPattern struct {
	Name   string
	Expr   string
	Weight float64

	re *regexp.Regexp
}

// PatternMatcher evaluates a fixed ordered list of scam structure
// patterns and reports the maximum matched weight.
type PatternMatcher struct {
	patterns []ScamPattern
	logger   *logger.Logger
}

// NewPatternMatcher compiles the default pattern table. A pattern that
// fails to compile is skipped and logged rather than aborting startup.
func NewPatternMatcher(log *logger.Logger) *PatternMatcher {
	m := &PatternMatcher{logger: log.WithComponent("pattern-matcher")}

	for _, p := range defaultScamPatterns() {
		re, err := regexp.Compile("(?i)" + p.Expr)
		if err != nil {
			m.logger.Warn().Err(err).Str("pattern", p.Name).Msg("skipping invalid pattern")
			continue
		}
		p.re = re
		m.patterns = append(m.patterns, p)
	}

	return m
}

// Score returns the maximum weight among matching patterns and the
// names of every pattern that matched.
func (m *PatternMatcher) Score(text string) (float64, []string) {
	best := 0.0
	var matched []string

	for _, p := range m.patterns {
		if p.re.MatchString(text) {
			matched = append(matched, p.Name)
			if p.Weight > best {
				best = p.Weight
			}
		}
	}

	return best, matched
}

func defaultScamPatterns() []ScamPattern {
	return []ScamPattern{
		{
			Name:   "lottery_prize_amount",
			Expr:   `(won|win|winner).{0,40}(lottery|prize|lakh|crore|award)`,
			Weight: 1.0,
		},
		{
			Name:   "credential_request",
			Expr:   `(share|send|enter|tell).{0,30}(otp|pin|cvv|password)`,
			Weight: 0.95,
		},
		{
			Name:   "account_block_threat",
			Expr:   `(account|upi|kyc|card).{0,40}(suspend|block|deactivat|expire|clos)`,
			Weight: 0.85,
		},
		{
			Name:   "authority_fine",
			Expr:   `(rbi|police|income tax|customs|court).{0,40}(fine|penalty|action|warrant|notice)`,
			Weight: 0.85,
		},
		{
			Name:   "click_verify",
			Expr:   `click.{0,30}(link|here|below).{0,40}(verify|update|claim|confirm)`,
			Weight: 0.8,
		},
		{
			Name:   "document_verify",
			Expr:   `(upload|submit|send).{0,30}(aadhaar|pan|kyc|document).{0,30}(verify|update)`,
			Weight: 0.8,
		},
		{
			Name:   "payment_to_account",
			Expr:   `(pay|transfer|deposit|send).{0,30}(rs\.?|inr|₹)\s*\d+`,
			Weight: 0.75,
		},
		{
			Name:   "free_claim",
			Expr:   `(free|bonus|gift).{0,30}(claim|collect|receive)`,
			Weight: 0.7,
		},
	}
}
