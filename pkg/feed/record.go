package feed

import (
	"bytes"
	"encoding/json"
)

// Well-known record fields. The feed declares these but guarantees none of
// them on any individual record.
const (
	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldUserName  = "user_name"
	FieldTimestamp = "timestamp"
	FieldMessage   = "message"
)

// Record is one member message as delivered by the feed: an open mapping
// from field name to variant value.
type Record map[string]Value

// Missing reports whether the field is absent, null, or an empty string.
// The three cases are treated uniformly everywhere.
func (r Record) Missing(field string) bool {
	v, ok := r[field]
	if !ok {
		return true
	}
	if v.Kind == KindNull {
		return true
	}
	return v.Kind == KindText && v.Text == ""
}

// Display returns the field rendered for previews, and whether the field
// carries a usable (non-missing) value.
func (r Record) Display(field string) (string, bool) {
	if r.Missing(field) {
		return "", false
	}
	return r[field].Display(), true
}

// Batch is the full input unit for one analysis run: the upstream-declared
// total plus the records actually delivered. Items may be a strict subset of
// Total when the feed paginates.
type Batch struct {
	Total int      `json:"total"`
	Items []Record `json:"items"`
}

// UnmarshalJSON tolerates the two shapes the feed has been seen to return:
// the documented {"total": N, "items": [...]} envelope (a missing total
// defaults to 0) and a bare array of records.
func (b *Batch) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []Record
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		b.Total = len(items)
		b.Items = items
		return nil
	}

	var wire struct {
		Total *int     `json:"total"`
		Items []Record `json:"items"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	b.Items = wire.Items
	b.Total = 0
	if wire.Total != nil {
		b.Total = *wire.Total
	}
	return nil
}
