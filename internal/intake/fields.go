package intake

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/araddon/dateparse"
)

// Payload carries the submitted body fields after the handler has folded the
// wire-level field-name variants (date/date_time, referer/referrer) together.
type Payload struct {
	Date     string
	Path     string
	Referrer string
}

// ValidationError rejects a payload, naming the first field that failed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func reject(field, reason string) (ValidatedFields, error) {
	return ValidatedFields{}, &ValidationError{Field: field, Reason: reason}
}

// ValidateFields checks and normalizes a payload. The first failing field
// wins; there is no partial acceptance.
//
// Rules, in precedence order:
//  1. date: required, parsed with a permissive locale-agnostic grammar.
//  2. path: explicit value, else the URL-path component of the Referer
//     header, else rejected. Paths over the limit are rejected rather than
//     truncated; a truncated path would misattribute the view.
//  3. referrer: the sentinel and the empty value both normalize to "";
//     anything else is stored verbatim, rune-truncated at the limit.
func ValidateFields(p Payload, refererHeader string) (ValidatedFields, error) {
	if strings.TrimSpace(p.Date) == "" {
		return reject("date", "date is required")
	}
	occurredAt, err := dateparse.ParseAny(p.Date)
	if err != nil {
		return reject("date", "date is not a valid timestamp")
	}

	path := p.Path
	if path == "" {
		path = refererPath(refererHeader)
	}
	if path == "" {
		return reject("path", "path is required")
	}
	if utf8.RuneCountInString(path) > PathMaxLen {
		return reject("path", "path exceeds 1000 characters")
	}

	referrer := p.Referrer
	if referrer == ReferrerSentinel {
		referrer = ""
	}
	referrer = truncateRunes(referrer, ReferrerMaxLen)

	return ValidatedFields{
		OccurredAt: occurredAt.UTC(),
		Path:       path,
		Referrer:   referrer,
	}, nil
}

// refererPath extracts the URL-path component of a Referer header value.
// An unparseable header is treated as absent.
func refererPath(header string) string {
	if header == "" {
		return ""
	}
	u, err := url.Parse(header)
	if err != nil {
		return ""
	}
	return u.Path
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
