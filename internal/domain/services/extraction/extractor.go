package extraction

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sivaneshk23/honeypot-api/internal/domain/models"
	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

const (
	minTextLength = 10
	minConfidence = 0.6

	// contextPenalty degrades matches that appear without any of the
	// type's surrounding vocabulary, such as a bare digit run with no
	// mention of accounts or payment.
	contextPenalty = 0.7
)

// Extractor pulls actionable intelligence (accounts, UPI handles,
// links, phone numbers) out of scammer messages using a typed rule
// table.
type Extractor struct {
	table  []typeRules
	logger *logger.Logger
}

// NewExtractor compiles the default rule table. Rules that fail to
// compile are skipped and logged rather than taking the service down.
func NewExtractor(log *logger.Logger) *Extractor {
	e := &Extractor{logger: log.WithComponent("intel-extractor")}
	for _, tr := range defaultRuleTable() {
		compiled := tr
		compiled.rules = nil
		for _, r := range tr.rules {
			re, err := regexp.Compile(r.expr)
			if err != nil {
				e.logger.Error().Err(err).Str("pattern", r.expr).Msg("skipping invalid extraction rule")
				continue
			}
			r.re = re
			compiled.rules = append(compiled.rules, r)
		}
		e.table = append(e.table, compiled)
	}
	return e
}

// Extract runs every rule against the text and returns cleaned,
// deduplicated items grouped by type, highest confidence first. Items
// below the confidence floor are discarded.
func (e *Extractor) Extract(text string) models.Intelligence {
	intel := models.Intelligence{}
	if len(strings.TrimSpace(text)) < minTextLength {
		return intel
	}
	lower := strings.ToLower(text)

	for _, tr := range e.table {
		hasContext := containsAny(lower, tr.context)
		seen := map[string]bool{}
		var items []models.ExtractedItem

		for _, r := range tr.rules {
			for _, m := range r.re.FindAllStringSubmatch(text, -1) {
				raw := m[0]
				if len(m) > 1 && m[1] != "" {
					raw = m[1]
				}
				value := strings.Trim(raw, " \t.,;:!?")
				if tr.clean != nil {
					value = tr.clean(value)
				}
				if value == "" || seen[value] {
					continue
				}
				if tr.validate != nil && !tr.validate(value) {
					continue
				}

				conf := r.confidence
				if !hasContext {
					conf *= contextPenalty
				}
				if conf < minConfidence {
					continue
				}

				seen[value] = true
				items = append(items, models.ExtractedItem{
					Value:      value,
					Type:       tr.itemType,
					Confidence: conf,
					Context:    snippet(text, m[0]),
				})
			}
		}

		if len(items) > 0 {
			sort.SliceStable(items, func(i, j int) bool {
				return items[i].Confidence > items[j].Confidence
			})
			intel[tr.itemType] = items
		}
	}

	if n := intel.Total(); n > 0 {
		e.logger.Debug().Int("items", n).Msg("intelligence extracted")
	}
	return intel
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// snippet returns a short window of the original text around the match
// for analyst review.
func snippet(text, match string) string {
	idx := strings.Index(text, match)
	if idx < 0 {
		return ""
	}
	start := idx - 20
	if start < 0 {
		start = 0
	}
	end := idx + len(match) + 20
	if end > len(text) {
		end = len(text)
	}
	return strings.TrimSpace(text[start:end])
}
