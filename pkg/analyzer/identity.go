package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dataquill/memberaudit/pkg/feed"
)

const (
	nameVariationPreview = 5
	idMappingPreview     = 3
)

// checkIdentity surfaces identity-resolution risk: display names that look
// like variations of the same member, and author ids mapped to more than one
// name. The name-variation heuristic buckets distinct names by their first
// whitespace-delimited token, case-folded; it is approximate by design.
func (r *run) checkIdentity() {
	r.section(3, "User Name Analysis")

	nameCounts := make(map[string]int)
	uniqueIDs := make(map[string]struct{})
	for _, rec := range r.batch.Items {
		if name, ok := rec.Display(feed.FieldUserName); ok {
			nameCounts[name]++
		}
		if id, ok := rec.Display(feed.FieldUserID); ok {
			uniqueIDs[id] = struct{}{}
		}
	}

	uniqueNames := make([]string, 0, len(nameCounts))
	for name := range nameCounts {
		uniqueNames = append(uniqueNames, name)
	}
	sort.Strings(uniqueNames)

	fmt.Fprintf(r.out, "Unique user names: %d\n", len(uniqueNames))
	fmt.Fprintf(r.out, "Unique user IDs: %d\n", len(uniqueIDs))

	fmt.Fprintln(r.out, "\nAll members:")
	for _, name := range uniqueNames {
		fmt.Fprintf(r.out, "  - %s: %d message(s)\n", name, nameCounts[name])
	}

	buckets := make(map[string][]string)
	var bucketOrder []string
	for _, name := range uniqueNames {
		tokens := strings.Fields(name)
		if len(tokens) == 0 {
			continue
		}
		key := strings.ToLower(tokens[0])
		if _, ok := buckets[key]; !ok {
			bucketOrder = append(bucketOrder, key)
		}
		buckets[key] = append(buckets[key], name)
	}
	sort.Strings(bucketOrder)

	var ambiguous []string
	for _, key := range bucketOrder {
		if len(buckets[key]) > 1 {
			ambiguous = append(ambiguous, key)
		}
	}

	if len(ambiguous) > 0 {
		fmt.Fprintln(r.out)
		r.fail("Potential name variations detected:")
		for i, key := range ambiguous {
			if i == nameVariationPreview {
				break
			}
			fmt.Fprintf(r.out, "  %s: %s\n", key, strings.Join(buckets[key], ", "))
		}
		r.addFinding("%d potential name variations", len(ambiguous))
	} else {
		fmt.Fprintln(r.out)
		r.pass("No obvious name variations detected")
	}

	idNames := make(map[string]map[string]struct{})
	var idOrder []string
	for _, rec := range r.batch.Items {
		id, okID := rec.Display(feed.FieldUserID)
		name, okName := rec.Display(feed.FieldUserName)
		if !okID || !okName {
			continue
		}
		if _, ok := idNames[id]; !ok {
			idNames[id] = make(map[string]struct{})
			idOrder = append(idOrder, id)
		}
		idNames[id][name] = struct{}{}
	}
	sort.Strings(idOrder)

	var inconsistent []string
	for _, id := range idOrder {
		if len(idNames[id]) > 1 {
			inconsistent = append(inconsistent, id)
		}
	}

	if len(inconsistent) > 0 {
		fmt.Fprintln(r.out)
		r.fail("User IDs with multiple names:")
		for i, id := range inconsistent {
			if i == idMappingPreview {
				break
			}
			mapped := make([]string, 0, len(idNames[id]))
			for name := range idNames[id] {
				mapped = append(mapped, name)
			}
			sort.Strings(mapped)
			fmt.Fprintf(r.out, "  User %s: %s\n", id, strings.Join(mapped, ", "))
		}
		r.addFinding("%d user IDs with multiple names", len(inconsistent))
	}

	r.endSection()
}
