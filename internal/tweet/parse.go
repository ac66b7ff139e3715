package tweet

import (
	"fmt"
	"strconv"
	"strings"
)

// QuoteToken is the reference a quote appends to its body.
func QuoteToken(statusDomain string, sourceID uint64) string {
	return fmt.Sprintf("%s/status/%d", strings.TrimRight(statusDomain, "/"), sourceID)
}

// statusMarker is the scheme-less part of a quote token before the id.
func statusMarker(statusDomain string) string {
	host := strings.TrimRight(statusDomain, "/")
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	return host + "/status/"
}

// QuotedID reports the post a body links to, if its last word is a quote token.
func QuotedID(body, statusDomain string) (uint64, bool) {
	words := strings.Fields(body)
	if len(words) == 0 {
		return 0, false
	}
	last := words[len(words)-1]

	marker := statusMarker(statusDomain)
	i := strings.Index(last, marker)
	if i < 0 {
		return 0, false
	}
	id, err := strconv.ParseUint(last[i+len(marker):], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
