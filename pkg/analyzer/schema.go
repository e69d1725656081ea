package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dataquill/memberaudit/pkg/feed"
)

const missingFieldPreview = 5

// schemaSignature is the sorted, comma-joined field-name set of a record. A
// record with no fields still has a signature (the empty one).
func schemaSignature(rec feed.Record) string {
	if len(rec) == 0 {
		return "(none)"
	}
	fields := make([]string, 0, len(rec))
	for name := range rec {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return strings.Join(fields, ", ")
}

// checkSchemaConsistency groups records by schema signature and flags every
// (record, expected field) pair that is absent, null, or empty.
func (r *run) checkSchemaConsistency() {
	r.section(1, "Schema Consistency Check")

	counts := make(map[string]int)
	var signatures []string
	for _, rec := range r.batch.Items {
		sig := schemaSignature(rec)
		if counts[sig] == 0 {
			signatures = append(signatures, sig)
		}
		counts[sig]++
	}
	sort.Strings(signatures)

	if len(signatures) <= 1 {
		r.pass("All messages have consistent schema")
		if len(signatures) == 1 {
			fmt.Fprintf(r.out, "  Fields: %s\n", signatures[0])
		}
	} else {
		r.fail("Inconsistent schemas detected!")
		for _, sig := range signatures {
			fmt.Fprintf(r.out, "  Schema variant (%d messages): %s\n", counts[sig], sig)
		}
		r.addFinding("%d schema variants across messages", len(signatures))
	}

	type missingField struct {
		recordID string
		field    string
	}
	var missing []missingField
	for _, rec := range r.batch.Items {
		for _, field := range r.cfg.ExpectedFields {
			if rec.Missing(field) {
				missing = append(missing, missingField{recordID: recordLabel(rec), field: field})
			}
		}
	}

	if len(missing) > 0 {
		fmt.Fprintln(r.out)
		r.fail("Found %d missing/empty fields", len(missing))
		for i, m := range missing {
			if i == missingFieldPreview {
				break
			}
			fmt.Fprintf(r.out, "  Message %s: missing '%s'\n", m.recordID, m.field)
		}
		if len(missing) > missingFieldPreview {
			fmt.Fprintf(r.out, "  ... and %d more\n", len(missing)-missingFieldPreview)
		}
		r.addFinding("%d missing/empty fields", len(missing))
	} else {
		fmt.Fprintln(r.out)
		r.pass("No missing or empty fields detected")
	}

	r.endSection()
}

// checkDataTypes flags every field whose value category varies across the
// batch. Comparison is by category only: a numeric string next to a number is
// drift, whatever the field means.
func (r *run) checkDataTypes() {
	r.section(2, "Data Type Consistency Check")

	fieldKinds := make(map[string]map[string]struct{})
	var fieldOrder []string
	for _, rec := range r.batch.Items {
		for name, value := range rec {
			kinds, ok := fieldKinds[name]
			if !ok {
				kinds = make(map[string]struct{})
				fieldKinds[name] = kinds
				fieldOrder = append(fieldOrder, name)
			}
			kinds[value.Kind.String()] = struct{}{}
		}
	}
	sort.Strings(fieldOrder)

	inconsistent := false
	for _, name := range fieldOrder {
		kinds := fieldKinds[name]
		if len(kinds) <= 1 {
			continue
		}
		names := make([]string, 0, len(kinds))
		for k := range kinds {
			names = append(names, k)
		}
		sort.Strings(names)
		r.fail("Field '%s' has multiple types: %s", name, strings.Join(names, ", "))
		r.addFinding("Field '%s' has inconsistent types", name)
		inconsistent = true
	}

	if !inconsistent {
		r.pass("All fields have consistent data types")
	}

	r.endSection()
}

// recordLabel identifies a record in previews; falls back to "unknown" when
// the record has no usable id.
func recordLabel(rec feed.Record) string {
	if id, ok := rec.Display(feed.FieldID); ok {
		return id
	}
	return "unknown"
}
