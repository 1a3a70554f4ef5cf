package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivaneshk23/honeypot-api/internal/domain/models"
	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	return NewExtractor(logger.NewDefault())
}

func TestExtractor_AccountAndUPI(t *testing.T) {
	e := newTestExtractor(t)

	intel := e.Extract("Pay Rs 5000 to account 123456789012 immediately. UPI: fraud@ybl")

	banks := intel[models.ItemTypeBankAccount]
	require.Len(t, banks, 1)
	assert.Equal(t, "123456789012", banks[0].Value)
	assert.GreaterOrEqual(t, banks[0].Confidence, 0.9)

	upis := intel[models.ItemTypeUPIID]
	require.Len(t, upis, 1)
	assert.Equal(t, "fraud@ybl", upis[0].Value)
	assert.GreaterOrEqual(t, upis[0].Confidence, 0.9)

	// A handle with no dot in the domain is not an email address
	assert.Empty(t, intel[models.ItemTypeEmail])
}

func TestExtractor_UPIHandleNotSplitByPayPrefix(t *testing.T) {
	e := newTestExtractor(t)

	// "paytm@okaxis" starts with the letters "pay"; the phrase rule
	// must not anchor inside the handle and capture a truncated tail.
	intel := e.Extract("send money to paytm@okaxis now, transfer fast")

	upis := intel[models.ItemTypeUPIID]
	require.Len(t, upis, 1)
	assert.Equal(t, "paytm@okaxis", upis[0].Value)
}

func TestExtractor_UPIPhraseRequiresPayTo(t *testing.T) {
	e := newTestExtractor(t)

	// An explicit "pay to" phrase still anchors handles with
	// unrecognized suffixes.
	intel := e.Extract("please pay to merchant@somebank for the transfer")

	upis := intel[models.ItemTypeUPIID]
	require.Len(t, upis, 1)
	assert.Equal(t, "merchant@somebank", upis[0].Value)
	assert.InDelta(t, 0.9, upis[0].Confidence, 1e-9)
}

func TestExtractor_CrossFormDedup(t *testing.T) {
	e := newTestExtractor(t)

	// Same account written two ways cleans to one value; the anchored
	// higher-confidence form wins.
	intel := e.Extract("Send to account number: 1234-5678-9012 ok? I repeat, 123456789012, transfer now")

	banks := intel[models.ItemTypeBankAccount]
	require.Len(t, banks, 1)
	assert.Equal(t, "123456789012", banks[0].Value)
	assert.Equal(t, 0.95, banks[0].Confidence)
}

func TestExtractor_ShortTextIgnored(t *testing.T) {
	e := newTestExtractor(t)

	assert.Equal(t, 0, e.Extract("ok").Total())
	assert.Equal(t, 0, e.Extract("   hi    ").Total())
	assert.Equal(t, 0, e.Extract("").Total())
}

func TestExtractor_ContextDegradation(t *testing.T) {
	e := newTestExtractor(t)

	// A bare digit run with no banking vocabulary degrades below the
	// reporting floor and is dropped.
	noContext := e.Extract("the winning code is 123456789012 congratulations")
	assert.Empty(t, noContext[models.ItemTypeBankAccount])

	withContext := e.Extract("deposit the amount, code 123456789012 works")
	require.Len(t, withContext[models.ItemTypeBankAccount], 1)
	assert.InDelta(t, 0.75, withContext[models.ItemTypeBankAccount][0].Confidence, 1e-9)
}

func TestExtractor_PlaceholderRejected(t *testing.T) {
	e := newTestExtractor(t)

	intel := e.Extract("transfer money to account 1234567890 right now")
	assert.Empty(t, intel[models.ItemTypeBankAccount])
}

func TestExtractor_URLs(t *testing.T) {
	e := newTestExtractor(t)

	intel := e.Extract("Click this link: http://bit.ly/verify-kyc to update your account today")

	urls := intel[models.ItemTypeURL]
	require.NotEmpty(t, urls)
	assert.Equal(t, "http://bit.ly/verify-kyc", urls[0].Value)
	assert.GreaterOrEqual(t, urls[0].Confidence, 0.9)
}

func TestExtractor_Phones(t *testing.T) {
	e := newTestExtractor(t)

	intel := e.Extract("Call me at 9876543210 for the verification process")

	phones := intel[models.ItemTypePhone]
	require.Len(t, phones, 1)
	assert.Equal(t, "9876543210", phones[0].Value)
	assert.Equal(t, 0.95, phones[0].Confidence)
}

func TestExtractor_PhonePrefixNormalized(t *testing.T) {
	e := newTestExtractor(t)

	intel := e.Extract("my number +91 9876543210, call anytime please")

	phones := intel[models.ItemTypePhone]
	require.Len(t, phones, 1)
	assert.Equal(t, "9876543210", phones[0].Value)
}

func TestExtractor_Email(t *testing.T) {
	e := newTestExtractor(t)

	intel := e.Extract("send the documents by email to refunds@secure-bank.com today")

	emails := intel[models.ItemTypeEmail]
	require.Len(t, emails, 1)
	assert.Equal(t, "refunds@secure-bank.com", emails[0].Value)
}

func TestExtractor_CardDetails(t *testing.T) {
	e := newTestExtractor(t)

	intel := e.Extract("share your card number 4532 0151 1283 0366 and cvv 123 to unlock")

	cards := intel[models.ItemTypeCardDetail]
	require.GreaterOrEqual(t, len(cards), 2)
	assert.Equal(t, "4532015112830366", cards[0].Value)
}

func TestExtractor_SortedByConfidence(t *testing.T) {
	e := newTestExtractor(t)

	intel := e.Extract("transfer to account no: 987654321098 or use 123456789876 for the deposit")

	banks := intel[models.ItemTypeBankAccount]
	require.Len(t, banks, 2)
	for i := 1; i < len(banks); i++ {
		assert.GreaterOrEqual(t, banks[i-1].Confidence, banks[i].Confidence)
	}
}

func TestExtractor_Idempotent(t *testing.T) {
	e := newTestExtractor(t)
	text := "Pay to account 555666777888, UPI scammer@paytm, call 9123456780 now"

	first := e.Extract(text)
	second := e.Extract(text)
	assert.Equal(t, first, second)
}
