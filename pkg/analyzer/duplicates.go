package analyzer

import (
	"fmt"
	"sort"

	"github.com/dataquill/memberaudit/pkg/feed"
)

const (
	duplicatePreview   = 3
	duplicateBodyWidth = 50
)

// frequency counts exact occurrences of the given field's values across the
// batch, preserving first-encounter order. Missing values are excluded; two
// absent bodies are not a match.
func (r *run) frequency(field string) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, rec := range r.batch.Items {
		value, ok := rec.Display(field)
		if !ok {
			continue
		}
		if counts[value] == 0 {
			order = append(order, value)
		}
		counts[value]++
	}
	return counts, order
}

// checkDuplicates runs two exact-match frequency checks: one over message
// identifiers, one over message body text.
func (r *run) checkDuplicates() {
	r.section(6, "Duplicate Detection")

	idCounts, idOrder := r.frequency(feed.FieldID)
	var dupIDs []string
	for _, id := range idOrder {
		if idCounts[id] > 1 {
			dupIDs = append(dupIDs, id)
		}
	}

	if len(dupIDs) > 0 {
		r.fail("Found %d duplicate message IDs", len(dupIDs))
		for i, id := range dupIDs {
			if i == duplicatePreview {
				break
			}
			fmt.Fprintf(r.out, "  ID %s: appears %d times\n", id, idCounts[id])
		}
		r.addFinding("%d duplicate message IDs", len(dupIDs))
	} else {
		r.pass("No duplicate message IDs found")
	}

	bodyCounts, bodyOrder := r.frequency(feed.FieldMessage)
	var dupBodies []string
	for _, body := range bodyOrder {
		if bodyCounts[body] > 1 {
			dupBodies = append(dupBodies, body)
		}
	}

	fmt.Fprintln(r.out)
	if len(dupBodies) > 0 {
		r.fail("Found %d duplicate messages", len(dupBodies))
		for i, body := range dupBodies {
			if i == duplicatePreview {
				break
			}
			fmt.Fprintf(r.out, "  '%s': appears %d times\n", truncate(body, duplicateBodyWidth), bodyCounts[body])
		}
		r.addFinding("%d duplicate message contents", len(dupBodies))
	} else {
		r.pass("No duplicate message content found")
	}

	r.endSection()
}

// extractInsights prints member activity ordered by descending message
// count; ties keep first-encounter order.
func (r *run) extractInsights() {
	r.section(7, "Data Insights & Member Activity")

	nameCounts, nameOrder := r.frequency(feed.FieldUserName)
	sort.SliceStable(nameOrder, func(i, j int) bool {
		return nameCounts[nameOrder[i]] > nameCounts[nameOrder[j]]
	})

	fmt.Fprintln(r.out, "\nMember activity (sorted by message count):")
	for _, name := range nameOrder {
		fmt.Fprintf(r.out, "  %s: %d message(s)\n", name, nameCounts[name])
	}

	r.endSection()
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width]) + "..."
}
