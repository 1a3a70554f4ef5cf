package models

import "sort"

// ItemType classifies an extracted intelligence artifact
type ItemType string

const (
	ItemTypeBankAccount ItemType = "bank_account"
	ItemTypeUPIID       ItemType = "upi_id"
	ItemTypeURL         ItemType = "url"
	ItemTypePhone       ItemType = "phone_number"
	ItemTypeEmail       ItemType = "email"
	ItemTypeCardDetail  ItemType = "card_detail"
)

// AllItemTypes lists every item type in report order
var AllItemTypes = []ItemType{
	ItemTypeBankAccount, ItemTypeUPIID, ItemTypeURL, ItemTypePhone, ItemTypeEmail, ItemTypeCardDetail,
}

// ExtractedItem is a single piece of intelligence mined from scammer text.
// Items are immutable once created.
type ExtractedItem struct {
	Value      string   `json:"value"`
	Type       ItemType `json:"type"`
	Confidence float64  `json:"confidence"`
	Context    string   `json:"context,omitempty"`
}

// Intelligence maps item types to their extracted items, each list unique
// by value and ordered by confidence descending. A session's intelligence
// only ever grows; items are never removed before session destruction.
type Intelligence map[ItemType][]ExtractedItem

// NewIntelligence returns an empty intelligence map
func NewIntelligence() Intelligence {
	return make(Intelligence)
}

// Merge folds a fresh extraction delta into the accumulated intelligence,
// deduplicating by (type, value). The first-seen instance wins, which keeps
// the highest-confidence extractor's item since extractors run in descending
// specificity order.
func (in Intelligence) Merge(delta Intelligence) {
	for itemType, items := range delta {
		seen := make(map[string]bool, len(in[itemType]))
		for _, existing := range in[itemType] {
			seen[existing.Value] = true
		}
		for _, item := range items {
			if seen[item.Value] {
				continue
			}
			seen[item.Value] = true
			in[itemType] = append(in[itemType], item)
		}
		sort.SliceStable(in[itemType], func(i, j int) bool {
			return in[itemType][i].Confidence > in[itemType][j].Confidence
		})
	}
}

// Clone returns a deep copy safe to hand outside a session lock
func (in Intelligence) Clone() Intelligence {
	out := make(Intelligence, len(in))
	for itemType, items := range in {
		cp := make([]ExtractedItem, len(items))
		copy(cp, items)
		out[itemType] = cp
	}
	return out
}

// Values returns the raw values for an item type, confidence order
func (in Intelligence) Values(t ItemType) []string {
	items := in[t]
	values := make([]string, 0, len(items))
	for _, item := range items {
		values = append(values, item.Value)
	}
	return values
}

// HasFinancial reports whether any high-value financial artifact
// (bank account, UPI handle, or card detail) has been captured.
func (in Intelligence) HasFinancial() bool {
	return len(in[ItemTypeBankAccount]) > 0 || len(in[ItemTypeUPIID]) > 0 || len(in[ItemTypeCardDetail]) > 0
}

// Total counts all items across types
func (in Intelligence) Total() int {
	n := 0
	for _, items := range in {
		n += len(items)
	}
	return n
}
