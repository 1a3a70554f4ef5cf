package models

// ReportIntelligence is the intelligence section of the finalization
// payload, shaped for the external evaluation endpoint.
type ReportIntelligence struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// FinalReport is the summary delivered once per session when the
// engagement threshold is reached, just before the session is torn down.
type FinalReport struct {
	SessionID              string             `json:"sessionId"`
	ScamDetected           bool               `json:"scamDetected"`
	TotalMessagesExchanged int                `json:"totalMessagesExchanged"`
	ExtractedIntelligence  ReportIntelligence `json:"extractedIntelligence"`
	AgentNotes             string             `json:"agentNotes"`
}
