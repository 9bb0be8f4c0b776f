package i18n

import (
	"regexp"
	"strconv"
	"strings"
)

// serverErrorKeys maps the remote API's English error sentences to message keys.
var serverErrorKeys = map[string]string{
	"BBS not found":                         "server.bbs_not_found",
	"Message not found":                     "server.message_not_found",
	"Message is required":                   "server.message_required",
	"Invalid message ID":                    "server.invalid_message_id",
	"You can only edit your own messages":   "server.edit_forbidden",
	"You can only delete your own messages": "server.delete_forbidden",
	"Invalid ID":                            "server.invalid_id",
	"Service not found":                     "server.service_not_found",
}

type serverErrorPattern struct {
	re  *regexp.Regexp
	key string
}

// Patterns carrying one numeric parameter; the key's template takes it as %d.
var serverErrorPatterns = []serverErrorPattern{
	{regexp.MustCompile(`^Message must be (\d+) characters or less$`), "server.message_too_long"},
	{regexp.MustCompile(`^Author name must be (\d+) characters or less$`), "server.author_too_long"},
	{regexp.MustCompile(`^Please wait (\d+) seconds before posting again$`), "server.wait_seconds"},
	{regexp.MustCompile(`^Maximum (\d+) messages allowed$`), "server.max_messages"},
}

// TranslateServerError localizes an English error sentence returned by the remote API.
// Unknown messages are returned unchanged.
func (b *Bundle) TranslateServerError(locale Locale, message string) string {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return message
	}

	if key, ok := serverErrorKeys[trimmed]; ok && b.Has(locale, key) {
		return b.T(locale, key)
	}

	for _, p := range serverErrorPatterns {
		m := p.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || !b.Has(locale, p.key) {
			break
		}
		return b.T(locale, p.key, n)
	}

	return message
}
