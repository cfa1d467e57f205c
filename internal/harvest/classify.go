// Package harvest reads rows out of a foreign, virtualized list by walking
// accessibility snapshots and scrolling the list until it stops yielding
// new entries.
package harvest

import (
	"regexp"
	"strings"
)

// Reason explains a classification verdict.
type Reason string

const (
	ReasonAccepted  Reason = "accepted"
	ReasonPhone     Reason = "phone"
	ReasonMalformed Reason = "malformed"
	ReasonKeyword   Reason = "keyword"
	ReasonTimestamp Reason = "timestamp"
	ReasonSymbols   Reason = "symbols"
)

// Verdict is the result of classifying one text value.
type Verdict struct {
	Accept bool   `yaml:"accept" json:"accept"`
	Reason Reason `yaml:"reason" json:"reason"`
}

// NoiseKeywords are substrings that mark section headers, tabs and counters
// rather than list rows.
var NoiseKeywords = []string{
	"Status", "My status", "Recent updates", "Viewed updates", "Channels",
	"All", "Unread", "Favourites", "Chats", "Groups", "items", "Video",
}

var (
	clockPattern  = regexp.MustCompile(`^\d{1,2}:\d{2}\s*(am|pm)?$`)
	datePattern   = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
	minSecPattern = regexp.MustCompile(`^\d+:\d{2}$`)
	symbolPattern = regexp.MustCompile(`^[\p{So}\s]+$`)
	phonePattern  = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "")
)

// Classify decides whether text names a genuine list entry.
func Classify(text string) Verdict {
	text = strings.TrimSpace(text)
	if text == "" || strings.Contains(text, "\n") || len([]rune(text)) <= 1 {
		return Verdict{Reason: ReasonMalformed}
	}
	if IsPhoneNumber(text) {
		return Verdict{Accept: true, Reason: ReasonPhone}
	}
	for _, kw := range NoiseKeywords {
		if strings.Contains(text, kw) {
			return Verdict{Reason: ReasonKeyword}
		}
	}
	if IsTimestamp(text) {
		return Verdict{Reason: ReasonTimestamp}
	}
	if symbolPattern.MatchString(text) {
		return Verdict{Reason: ReasonSymbols}
	}
	return Verdict{Accept: true, Reason: ReasonAccepted}
}

// IsPhoneNumber reports whether text is a phone number once spaces,
// hyphens and periods are removed.
func IsPhoneNumber(text string) bool {
	return phonePattern.MatchString(phoneSeparators.Replace(strings.TrimSpace(text)))
}

// IsTimestamp reports whether text is a clock time, a date or a duration.
func IsTimestamp(text string) bool {
	return clockPattern.MatchString(text) || datePattern.MatchString(text) || minSecPattern.MatchString(text)
}
