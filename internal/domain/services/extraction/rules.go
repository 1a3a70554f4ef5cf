package extraction

import (
	"regexp"
	"strings"

	"github.com/sivaneshk23/honeypot-api/internal/domain/models"
)

// rule is a single extraction pattern with the confidence assigned to
// values it captures. Anchored forms (value introduced by a label such
// as "account no:") score higher than bare matches.
type rule struct {
	expr       string
	confidence float64
	re         *regexp.Regexp
}

// typeRules holds every rule for one intelligence type along with the
// shared cleaning, validation, and context configuration.
type typeRules struct {
	itemType models.ItemType
	rules    []rule
	clean    func(string) string
	validate func(string) bool
	context  []string
}

// bankPlaceholders are sequences scammers and testers type as filler,
// never real account numbers.
var bankPlaceholders = map[string]bool{
	"1234567890":       true,
	"1111111111":       true,
	"4111111111111111": true,
	"4242424242424242": true,
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

// distinctDigits counts unique digit characters, used to reject
// obviously synthetic runs like 0000000000.
func distinctDigits(s string) int {
	seen := map[rune]bool{}
	for _, r := range s {
		if r >= '0' && r <= '9' {
			seen[r] = true
		}
	}
	return len(seen)
}

func validBankAccount(v string) bool {
	if len(v) < 9 || len(v) > 18 {
		return false
	}
	if distinctDigits(v) < 3 {
		return false
	}
	return !bankPlaceholders[v]
}

func validPhone(v string) bool {
	if len(v) != 10 {
		return false
	}
	if v[0] < '6' || v[0] > '9' {
		return false
	}
	return distinctDigits(v) >= 3
}

// normalizePhone strips separators and the +91 country prefix down to
// the 10-digit subscriber number.
func normalizePhone(v string) string {
	d := digitsOnly(v)
	if len(d) == 12 && strings.HasPrefix(d, "91") {
		d = d[2:]
	}
	return d
}

func normalizeURL(v string) string {
	v = strings.TrimRight(v, ".,;:!?)")
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		v = "http://" + v
	}
	return v
}

// validCardDetail accepts CVVs and expiry dates as-is but holds long
// digit runs to the same synthetic-value bar as account numbers.
func validCardDetail(v string) bool {
	d := digitsOnly(v)
	if len(d) >= 13 {
		return distinctDigits(d) >= 3 && !bankPlaceholders[d]
	}
	return true
}

// defaultRuleTable is the canonical extraction table. Order within a
// type matters: earlier (anchored, higher-confidence) rules win the
// dedup against later bare forms.
func defaultRuleTable() []typeRules {
	return []typeRules{
		{
			itemType: models.ItemTypeBankAccount,
			rules: []rule{
				{expr: `(?i)(?:account|acc?t|a/c)\s*(?:no|number|#)?\s*[.:=\-]?\s*(\d[\d\s\-]{7,20}\d)`, confidence: 0.95},
				{expr: `\b(\d{9,18})\b`, confidence: 0.75},
			},
			clean:    digitsOnly,
			validate: validBankAccount,
			context:  []string{"account", "bank", "transfer", "deposit", "neft", "imps", "ifsc", "upi", "pay"},
		},
		{
			itemType: models.ItemTypeUPIID,
			rules: []rule{
				{expr: `(?i)\b([\w.\-]{2,}@(?:okicici|okhdfc|okaxis|oksbi|ybl|axl|ibl|paytm|apl|upi|freecharge|yapl|rbl))\b`, confidence: 0.95},
				{expr: `(?i)\b(?:upi(?:\s*id)?|pay\s*to)\s*[:=\-]?\s*([\w.\-]{2,}@[a-zA-Z]{2,})`, confidence: 0.9},
			},
			clean:   strings.ToLower,
			context: []string{"upi", "pay", "send", "transfer", "scan"},
		},
		{
			itemType: models.ItemTypeURL,
			rules: []rule{
				{expr: `(?i)(?:click|visit|open|go\s+to)\s+(?:on\s+)?(?:this\s+|the\s+)?(?:link\s*[:=\-]?\s*)?(https?://\S+|www\.\S+)`, confidence: 0.95},
				{expr: `(?i)\b((?:bit\.ly|tinyurl\.com|t\.co|goo\.gl|is\.gd|cutt\.ly|rb\.gy)/\S+)`, confidence: 0.9},
				{expr: `(?i)\b(https?://\S+)`, confidence: 0.85},
			},
			clean:   normalizeURL,
			context: []string{"click", "link", "visit", "open", "website", "download"},
		},
		{
			itemType: models.ItemTypePhone,
			rules: []rule{
				{expr: `(?i)(?:call|whatsapp|contact)\s*(?:me\s*)?(?:at|on)?\s*[.:=\-]?\s*((?:\+91[\-\s]?)?[6-9]\d{9})\b`, confidence: 0.95},
				{expr: `(\+91[\-\s]?[6-9]\d{9})\b`, confidence: 0.9},
				{expr: `\b([6-9]\d{9})\b`, confidence: 0.7},
			},
			clean:    normalizePhone,
			validate: validPhone,
			context:  []string{"call", "contact", "phone", "whatsapp", "number"},
		},
		{
			itemType: models.ItemTypeEmail,
			rules: []rule{
				{expr: `(?i)\b([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})\b`, confidence: 0.85},
			},
			clean:   strings.ToLower,
			context: []string{"email", "mail", "send", "contact", "write"},
		},
		{
			itemType: models.ItemTypeCardDetail,
			rules: []rule{
				{expr: `(?i)card\s*(?:no|number|#)?\s*[.:=\-]?\s*(\d[\d\s\-]{11,22}\d)`, confidence: 0.95},
				{expr: `(?i)\bcvv\s*[.:=\-]?\s*(\d{3,4})\b`, confidence: 0.9},
				{expr: `(?i)\b(?:expiry|exp|valid\s*(?:thru|till))\s*[.:=\-]?\s*(\d{2}\s*/\s*\d{2,4})\b`, confidence: 0.85},
				{expr: `\b((?:\d[ \-]?){16})\b`, confidence: 0.8},
			},
			clean: func(s string) string {
				return strings.Join(strings.Fields(s), "")
			},
			validate: validCardDetail,
			context:  []string{"card", "cvv", "expiry", "debit", "credit", "otp"},
		},
	}
}
