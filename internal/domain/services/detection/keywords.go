package detection

import (
	"sort"
	"strings"
)

// Keyword categories. The per-category normalized scores feed both the
// combined confidence and the critical-combination boost, so category
// names are part of the scoring contract.
const (
	CategoryFinancialScam   = "financial_scam"
	CategoryUrgencyPressure = "urgency_pressure"
	CategoryCallToAction    = "call_to_action"
	CategoryPaymentDemand   = "payment_demand"
	CategoryFinancialThreat = "financial_threats"
	CategoryAuthority       = "authority_impersonation"
	CategoryCredential      = "credential_request"
)

// keywordNormalizer divides the per-category weight sum before capping.
// Contractual constant; do not tune.
const keywordNormalizer = 3.0

// KeywordScorer scores text against weighted keyword categories
type KeywordScorer struct {
	categories map[string]map[string]float64
}

// NewKeywordScorer creates a scorer with the default category tables
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{categories: defaultKeywordCategories()}
}

// Score returns the per-category normalized scores and the maximum
// across categories. Matching is literal case-insensitive substring
// search; each matched keyword contributes its weight to the category
// sum, which is divided by 3.0 and capped at 1.0.
func (k *KeywordScorer) Score(text string) (map[string]float64, float64) {
	lower := strings.ToLower(text)
	scores := make(map[string]float64, len(k.categories))
	best := 0.0

	for category, keywords := range k.categories {
		sum := 0.0
		for keyword, weight := range keywords {
			if strings.Contains(lower, keyword) {
				sum += weight
			}
		}
		score := sum / keywordNormalizer
		if score > 1.0 {
			score = 1.0
		}
		scores[category] = score
		if score > best {
			best = score
		}
	}

	return scores, best
}

// Matches returns the distinct keywords found in the text, sorted.
// Used when compiling the final intelligence report.
func (k *KeywordScorer) Matches(text string) []string {
	lower := strings.ToLower(text)
	seen := map[string]bool{}

	for _, keywords := range k.categories {
		for keyword := range keywords {
			if strings.Contains(lower, keyword) {
				seen[keyword] = true
			}
		}
	}

	matched := make([]string, 0, len(seen))
	for keyword := range seen {
		matched = append(matched, keyword)
	}
	sort.Strings(matched)
	return matched
}

func defaultKeywordCategories() map[string]map[string]float64 {
	return map[string]map[string]float64{
		CategoryFinancialScam: {
			"lottery":     0.9,
			"jackpot":     0.8,
			"won":         0.8,
			"winner":      0.8,
			"prize":       0.8,
			"lucky draw":  0.8,
			"lakh":        0.7,
			"crore":       0.7,
			"inheritance": 0.7,
			"free gift":   0.7,
			"reward":      0.6,
			"cashback":    0.6,
			"bonus":       0.5,
		},
		CategoryUrgencyPressure: {
			"final warning":   0.9,
			"last chance":     0.8,
			"immediately":     0.8,
			"act fast":        0.8,
			"within 24 hours": 0.8,
			"urgent":          0.7,
			"hurry":           0.7,
			"expire":          0.6,
			"today only":      0.6,
			"right away":      0.6,
			"now":             0.4,
		},
		CategoryCallToAction: {
			"claim":    0.7,
			"click":    0.6,
			"download": 0.6,
			"install":  0.6,
			"send":     0.5,
			"share":    0.5,
			"visit":    0.5,
			"register": 0.5,
			"submit":   0.5,
			"call":     0.4,
		},
		CategoryPaymentDemand: {
			"pay immediately": 0.9,
			"processing fee":  0.9,
			"send money":      0.8,
			"payment":         0.7,
			"transfer":        0.6,
			"deposit":         0.6,
			"pay":             0.6,
			"fee":             0.6,
			"upi":             0.6,
			"paytm":           0.6,
			"gpay":            0.6,
			"phonepe":         0.6,
		},
		CategoryFinancialThreat: {
			"legal action": 0.9,
			"arrest":       0.9,
			"suspended":    0.8,
			"suspend":      0.8,
			"blocked":      0.8,
			"deactivate":   0.8,
			"frozen":       0.8,
			"seized":       0.8,
			"block":        0.7,
			"penalty":      0.7,
			"fine":         0.6,
		},
		CategoryAuthority: {
			"rbi":               0.8,
			"income tax":        0.8,
			"police":            0.8,
			"customs":           0.8,
			"cyber cell":        0.8,
			"verification team": 0.8,
			"government":        0.7,
			"kyc":               0.7,
			"customer care":     0.7,
			"official":          0.6,
			"bank":              0.5,
		},
		CategoryCredential: {
			"otp":            0.9,
			"cvv":            0.9,
			"password":       0.8,
			"card number":    0.8,
			"aadhaar":        0.8,
			"net banking":    0.7,
			"account number": 0.7,
			"pan card":       0.7,
			"pin":            0.7,
			"login":          0.6,
		},
	}
}
