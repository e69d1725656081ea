package feed

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueUnmarshalKinds(t *testing.T) {
	raw := `{
		"text": "hello",
		"int": 42,
		"float": 3.5,
		"exp": 1e3,
		"bool": true,
		"null": null,
		"seq": [1, "two"],
		"map": {"nested": 1}
	}`

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	tests := []struct {
		field string
		kind  Kind
	}{
		{"text", KindText},
		{"int", KindInteger},
		{"float", KindFloat},
		{"exp", KindFloat},
		{"bool", KindBool},
		{"null", KindNull},
		{"seq", KindSequence},
		{"map", KindMapping},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.kind, rec[tt.field].Kind)
		})
	}

	assert.Equal(t, "hello", rec["text"].Text)
	assert.Equal(t, float64(42), rec["int"].Number)
	assert.Len(t, rec["seq"].Seq, 2)
	assert.Equal(t, KindInteger, rec["map"].Map["nested"].Kind)
}

func TestValueMarshalRoundTrip(t *testing.T) {
	v := Value{Kind: KindSequence, Seq: []Value{Integer(1), Text("two"), Null()}}
	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `[1, "two", null]`, string(out))

	out, err = json.Marshal(Integer(7))
	require.NoError(t, err)
	assert.Equal(t, "7", string(out))
}

func TestRecordMissing(t *testing.T) {
	rec := Record{
		"empty":  Text(""),
		"null":   Null(),
		"filled": Text("hi"),
		"zero":   Integer(0),
	}

	assert.True(t, rec.Missing("absent"))
	assert.True(t, rec.Missing("empty"))
	assert.True(t, rec.Missing("null"))
	assert.False(t, rec.Missing("filled"))
	assert.False(t, rec.Missing("zero"))
}

func TestRecordDisplay(t *testing.T) {
	rec := Record{
		"id":    Integer(12),
		"name":  Text("Amira"),
		"ratio": Float(0.5),
		"flag":  Bool(true),
	}

	id, ok := rec.Display("id")
	require.True(t, ok)
	assert.Equal(t, "12", id)

	name, ok := rec.Display("name")
	require.True(t, ok)
	assert.Equal(t, "Amira", name)

	_, ok = rec.Display("absent")
	assert.False(t, ok)
}

func TestBatchUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantTotal int
		wantItems int
	}{
		{"envelope", `{"total": 250, "items": [{"id": "m1"}]}`, 250, 1},
		{"missing total defaults to zero", `{"items": [{"id": "m1"}, {"id": "m2"}]}`, 0, 2},
		{"empty items", `{"total": 0, "items": []}`, 0, 0},
		{"bare array", `[{"id": "m1"}, {"id": "m2"}, {"id": "m3"}]`, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var batch Batch
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &batch))
			assert.Equal(t, tt.wantTotal, batch.Total)
			assert.Len(t, batch.Items, tt.wantItems)
		})
	}
}
