package detection

import (
	"regexp"
	"strings"

	"github.com/sivaneshk23/honeypot-api/internal/domain/models"
)

var (
	urlRe        = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"']+`)
	ipv4HostRe   = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
	bankDigitsRe = regexp.MustCompile(`\b\d{9,18}\b`)
	cardDigitsRe = regexp.MustCompile(`\b(?:\d[ -]?){13,19}\b`)
	upiHandleRe  = regexp.MustCompile(`(?i)\b[\w.\-]{2,}@(?:okicici|okhdfc|okaxis|oksbi|ybl|axl|ibl|paytm|apl|upi|freecharge|yapl|rbl)\b`)
	upiPhraseRe  = regexp.MustCompile(`(?i)(?:upi|pay\s*to)\s*[:=\-]?\s*[\w.\-]{2,}@[a-zA-Z]{2,}`)
	phoneRe      = regexp.MustCompile(`(?:\+91[\-\s]?)?[6-9]\d{9}\b`)
)

var urlShorteners = []string{
	"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly",
	"is.gd", "cutt.ly", "rb.gy", "rebrand.ly", "tiny.cc",
}

var suspiciousTLDs = []string{
	".xyz", ".top", ".club", ".work", ".click", ".link",
	".tk", ".ml", ".ga", ".cf", ".gq", ".buzz", ".icu",
}

var bankingKeywords = []string{"account", "bank", "a/c", "acct", "transfer", "deposit", "ifsc"}

var contactKeywords = []string{"call", "contact", "whatsapp", "phone", "reach"}

var urgencyWords = []string{
	"urgent", "immediately", "now", "hurry", "asap", "quickly", "instant", "expire",
}

var emotionalWords = []string{
	"emergency", "danger", "warning", "alert", "threat", "risk", "problem", "trouble",
}

// URLAnalyzer scores URLs found in text by reputation heuristics
type URLAnalyzer struct{}

// Score returns the max suspicion across URLs in the text, 0 if none.
// Shortened URLs score 0.9, suspicious TLDs 0.8, raw IP hosts 0.7,
// short unstructured URLs 0.6.
func (URLAnalyzer) Score(text string) float64 {
	best := 0.0
	for _, raw := range urlRe.FindAllString(text, -1) {
		score := scoreURL(raw)
		if score > best {
			best = score
		}
	}
	return best
}

func scoreURL(raw string) float64 {
	lower := strings.ToLower(strings.TrimRight(raw, ".,;:!?)"))

	host := strings.TrimPrefix(strings.TrimPrefix(lower, "https://"), "http://")
	host = strings.TrimPrefix(host, "www.")
	path := ""
	if i := strings.IndexAny(host, "/?"); i >= 0 {
		path = host[i:]
		host = host[:i]
	}
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}

	for _, shortener := range urlShorteners {
		if host == shortener {
			return 0.9
		}
	}
	for _, tld := range suspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			return 0.8
		}
	}
	if ipv4HostRe.MatchString(host) {
		return 0.7
	}
	if len(lower) < 20 && path == "" {
		return 0.6
	}
	return 0.0
}

// PhoneAnalyzer scores Indian-format mobile numbers in text
type PhoneAnalyzer struct{}

// Score returns 0.8 when multiple distinct numbers appear, 0.7 when a
// single number co-occurs with contact keywords, 0.4 for a bare number
// and 0 when none are present.
func (PhoneAnalyzer) Score(text string) float64 {
	distinct := make(map[string]bool)
	for _, raw := range phoneRe.FindAllString(text, -1) {
		distinct[normalizePhone(raw)] = true
	}

	switch {
	case len(distinct) == 0:
		return 0.0
	case len(distinct) > 1:
		return 0.8
	}

	lower := strings.ToLower(text)
	for _, kw := range contactKeywords {
		if strings.Contains(lower, kw) {
			return 0.7
		}
	}
	return 0.4
}

func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	return digits
}

// FinancialAnalyzer scores bank-account runs, UPI handles, and card-like
// digit sequences
type FinancialAnalyzer struct{}

// Score is the max over sub-checks, capped at 1.0
func (FinancialAnalyzer) Score(text string) float64 {
	best := 0.0
	lower := strings.ToLower(text)

	if bankDigitsRe.MatchString(text) {
		score := 0.7
		for _, kw := range bankingKeywords {
			if strings.Contains(lower, kw) {
				score = 0.95
				break
			}
		}
		if score > best {
			best = score
		}
	}

	if upiHandleRe.MatchString(text) {
		if 0.9 > best {
			best = 0.9
		}
	} else if upiPhraseRe.MatchString(text) {
		if 0.85 > best {
			best = 0.85
		}
	}

	if m := cardDigitsRe.FindString(text); m != "" {
		if len(digitsOnly(m)) >= 13 && 0.85 > best {
			best = 0.85
		}
	}

	if best > 1.0 {
		best = 1.0
	}
	return best
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LinguisticAnalyzer scores surface features of the text
type LinguisticAnalyzer struct{}

// Score computes the weighted linguistic suspicion and returns it with
// the raw features. Exclamation density weighs 0.3, the all-caps ratio
// 0.2, urgency words cap at 0.4, emotional words at 0.3, and texts
// shorter than 20 or longer than 500 characters carry a 0.7 penalty
// weighted 0.2.
func (LinguisticAnalyzer) Score(text string) (float64, models.LinguisticFeatures) {
	feats := models.LinguisticFeatures{Length: len(text)}

	feats.ExclamationCount = strings.Count(text, "!")
	exclaim := float64(feats.ExclamationCount) / 5.0
	if exclaim > 1.0 {
		exclaim = 1.0
	}

	words := strings.Fields(text)
	longWords, capsWords := 0, 0
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?\"'()")
		if len(w) <= 2 {
			continue
		}
		longWords++
		if w == strings.ToUpper(w) && w != strings.ToLower(w) {
			capsWords++
		}
	}
	if longWords > 0 {
		feats.CapsRatio = float64(capsWords) / float64(longWords)
	}

	lower := strings.ToLower(text)
	for _, w := range urgencyWords {
		if strings.Contains(lower, w) {
			feats.UrgencyWords++
		}
	}
	for _, w := range emotionalWords {
		if strings.Contains(lower, w) {
			feats.EmotionalWords++
		}
	}

	urgency := 0.2 * float64(feats.UrgencyWords)
	if urgency > 0.4 {
		urgency = 0.4
	}
	emotional := 0.15 * float64(feats.EmotionalWords)
	if emotional > 0.3 {
		emotional = 0.3
	}

	lengthPenalty := 0.0
	if feats.Length < 20 || feats.Length > 500 {
		lengthPenalty = 0.7
	}

	score := 0.3*exclaim + 0.2*feats.CapsRatio + urgency + emotional + 0.2*lengthPenalty
	if score > 1.0 {
		score = 1.0
	}

	return score, feats
}
