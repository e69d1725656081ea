package analyzer

import (
	"regexp"

	"github.com/dataquill/memberaudit/pkg/feed"
)

// TopicRule classifies a message into a topic when any keyword occurs in the
// lower-cased message body. Classification is best-effort substring matching,
// not NLP.
type TopicRule struct {
	Name     string
	Keywords []string
}

// Config carries the vocabularies the checks run against. Everything here is
// injected so tests can audit with alternate field sets and keyword tables.
type Config struct {
	// ExpectedFields are flagged per record when absent, null, or empty.
	ExpectedFields []string

	// Topics are evaluated in order; a message may match any number of them.
	Topics []TopicRule

	// DatePatterns mark a message as date-bearing when any one matches.
	DatePatterns []*regexp.Regexp

	// NumberPattern marks a message as containing a standalone number token.
	NumberPattern *regexp.Regexp
}

// DefaultConfig returns the production vocabularies: the feed's declared
// field set, the three topic keyword lists, and the three date shapes
// (ISO numeric, month-name, slash-delimited).
func DefaultConfig() Config {
	return Config{
		ExpectedFields: []string{
			feed.FieldID,
			feed.FieldUserID,
			feed.FieldUserName,
			feed.FieldTimestamp,
			feed.FieldMessage,
		},
		Topics: []TopicRule{
			{Name: "Travel-related", Keywords: []string{"trip", "travel", "flight", "hotel", "vacation", "visit", "booking"}},
			{Name: "Food/Dining", Keywords: []string{"restaurant", "dinner", "lunch", "reservation", "table", "chef", "menu"}},
			{Name: "Events/Entertainment", Keywords: []string{"ticket", "concert", "show", "performance", "event", "seats"}},
		},
		DatePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b\d{4}-\d{2}-\d{2}\b`),
			regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2},? \d{4}\b`),
			regexp.MustCompile(`(?i)\b\d{1,2}/\d{1,2}/\d{4}\b`),
		},
		NumberPattern: regexp.MustCompile(`\b\d+\b`),
	}
}
