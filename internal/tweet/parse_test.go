package tweet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteToken(t *testing.T) {
	assert.Equal(t, "https://tw.example/status/5", QuoteToken("https://tw.example", 5))
	assert.Equal(t, "https://tw.example/status/5", QuoteToken("https://tw.example/", 5))
}

func TestQuotedID(t *testing.T) {
	const domain = "https://tw.example"

	tests := []struct {
		name   string
		body   string
		wantID uint64
		wantOK bool
	}{
		{"token only", "https://tw.example/status/12", 12, true},
		{"text then token", "look at this https://tw.example/status/7", 7, true},
		{"other scheme", "see http://tw.example/status/9", 9, true},
		{"token not last", "https://tw.example/status/7 is great", 0, false},
		{"other host", "https://elsewhere.example/status/7", 0, false},
		{"no id", "https://tw.example/status/", 0, false},
		{"zero id", "https://tw.example/status/0", 0, false},
		{"trailing junk", "https://tw.example/status/7?s=20", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := QuotedID(tt.body, domain)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
