package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dataquill/memberaudit/pkg/feed"
)

// checkMessageContent computes length statistics, counts empty bodies, and
// classifies messages by embedded dates, number tokens, and topic keywords.
// A missing message counts as an empty string. All percentages short-circuit
// when the batch has no messages at all.
func (r *run) checkMessageContent() {
	r.section(5, "Message Content Analysis")

	messages := make([]string, 0, len(r.batch.Items))
	for _, rec := range r.batch.Items {
		body, _ := rec.Display(feed.FieldMessage)
		messages = append(messages, body)
	}

	total := len(messages)
	if total == 0 {
		fmt.Fprintln(r.out, "No messages to analyze")
		r.endSection()
		return
	}

	shortest, longest, sum := -1, 0, 0
	for _, msg := range messages {
		n := utf8.RuneCountInString(msg)
		sum += n
		if shortest < 0 || n < shortest {
			shortest = n
		}
		if n > longest {
			longest = n
		}
	}

	fmt.Fprintf(r.out, "Total messages: %d\n", total)
	fmt.Fprintf(r.out, "Average message length: %.1f characters\n", float64(sum)/float64(total))
	fmt.Fprintf(r.out, "Shortest message: %d characters\n", shortest)
	fmt.Fprintf(r.out, "Longest message: %d characters\n", longest)

	empty := 0
	for _, msg := range messages {
		if strings.TrimSpace(msg) == "" {
			empty++
		}
	}
	fmt.Fprintln(r.out)
	if empty > 0 {
		r.fail("Found %d empty messages", empty)
		r.addFinding("%d empty messages", empty)
	} else {
		r.pass("No empty messages detected")
	}

	fmt.Fprintln(r.out, "\nContent pattern analysis:")

	withDates := 0
	for _, msg := range messages {
		for _, pattern := range r.cfg.DatePatterns {
			if pattern.MatchString(msg) {
				withDates++
				break
			}
		}
	}
	fmt.Fprintf(r.out, "  Messages with dates: %d (%.1f%%)\n", withDates, percent(withDates, total))

	withNumbers := 0
	if r.cfg.NumberPattern != nil {
		for _, msg := range messages {
			if r.cfg.NumberPattern.MatchString(msg) {
				withNumbers++
			}
		}
	}
	fmt.Fprintf(r.out, "  Messages with numbers: %d (%.1f%%)\n", withNumbers, percent(withNumbers, total))

	fmt.Fprintln(r.out, "\nTopic distribution:")
	for _, topic := range r.cfg.Topics {
		matched := 0
		for _, msg := range messages {
			lower := strings.ToLower(msg)
			for _, kw := range topic.Keywords {
				if strings.Contains(lower, kw) {
					matched++
					break
				}
			}
		}
		fmt.Fprintf(r.out, "  %s: %d messages (%.1f%%)\n", topic.Name, matched, percent(matched, total))
	}

	r.endSection()
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
