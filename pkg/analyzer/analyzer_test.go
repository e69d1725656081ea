package analyzer

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataquill/memberaudit/pkg/feed"
)

func msg(id, userID, name, ts, body string) feed.Record {
	return feed.Record{
		feed.FieldID:        feed.Text(id),
		feed.FieldUserID:    feed.Text(userID),
		feed.FieldUserName:  feed.Text(name),
		feed.FieldTimestamp: feed.Text(ts),
		feed.FieldMessage:   feed.Text(body),
	}
}

func clockAt(ts string) func() time.Time {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return parsed }
}

func analyze(t *testing.T, batch *feed.Batch, opts ...Option) *Report {
	t.Helper()
	opts = append([]Option{WithOutput(io.Discard), WithClock(clockAt("2025-06-01T00:00:00Z"))}, opts...)
	rep, err := New(DefaultConfig(), opts...).Analyze(batch)
	require.NoError(t, err)
	return rep
}

func findingWith(rep *Report, substr string) bool {
	for _, f := range rep.Findings {
		if strings.Contains(f, substr) {
			return true
		}
	}
	return false
}

func TestAnalyzeNilBatch(t *testing.T) {
	_, err := New(DefaultConfig(), WithOutput(io.Discard)).Analyze(nil)
	require.Error(t, err)
}

func TestMessagesAnalyzedIgnoresDeclaredTotal(t *testing.T) {
	batch := &feed.Batch{
		Total: 999,
		Items: []feed.Record{
			msg("m1", "u1", "Amira Hassan", "2024-03-01T10:00:00Z", "Dinner at 7"),
			msg("m2", "u2", "Vikram Desai", "2024-03-02T10:00:00Z", "Flight booked"),
		},
	}

	rep := analyze(t, batch)
	assert.Equal(t, 999, rep.TotalMessages)
	assert.Equal(t, 2, rep.MessagesAnalyzed)
}

func TestConsistentSchemaYieldsNoSchemaFinding(t *testing.T) {
	batch := &feed.Batch{
		Total: 2,
		Items: []feed.Record{
			msg("m1", "u1", "Amira Hassan", "2024-03-01T10:00:00Z", "Dinner at 7"),
			msg("m2", "u2", "Vikram Desai", "2024-03-02T10:00:00Z", "Flight booked"),
		},
	}

	rep := analyze(t, batch)
	assert.False(t, findingWith(rep, "schema variants"))
	assert.False(t, findingWith(rep, "missing/empty fields"))
}

func TestSchemaDriftFlagged(t *testing.T) {
	batch := &feed.Batch{
		Total: 2,
		Items: []feed.Record{
			msg("m1", "u1", "Amira Hassan", "2024-03-01T10:00:00Z", "Dinner at 7"),
			{feed.FieldID: feed.Text("m2")},
		},
	}

	rep := analyze(t, batch)
	assert.True(t, findingWith(rep, "2 schema variants"))
	// the second record is missing four of the five expected fields
	assert.True(t, findingWith(rep, "4 missing/empty fields"))
}

func TestEmptySchemaSignatureCounts(t *testing.T) {
	batch := &feed.Batch{
		Total: 2,
		Items: []feed.Record{
			{},
			msg("m1", "u1", "Amira Hassan", "2024-03-01T10:00:00Z", "hello"),
		},
	}

	rep := analyze(t, batch)
	assert.True(t, findingWith(rep, "2 schema variants"))
}

func TestTypeDriftFlaggedByCategoryOnly(t *testing.T) {
	batch := &feed.Batch{
		Total: 2,
		Items: []feed.Record{
			{feed.FieldID: feed.Text("1"), feed.FieldMessage: feed.Text("a")},
			{feed.FieldID: feed.Integer(2), feed.FieldMessage: feed.Text("b")},
		},
	}

	rep := analyze(t, batch)
	assert.True(t, findingWith(rep, "Field 'id' has inconsistent types"))
	assert.False(t, findingWith(rep, "Field 'message' has inconsistent types"))
}

func TestNameVariationBucket(t *testing.T) {
	batch := &feed.Batch{
		Total: 2,
		Items: []feed.Record{
			msg("m1", "u1", "Amira Hassan", "2024-03-01T10:00:00Z", "hi"),
			msg("m2", "u2", "Amira Khalil", "2024-03-02T10:00:00Z", "hello"),
		},
	}

	rep := analyze(t, batch)
	assert.True(t, findingWith(rep, "1 potential name variations"))
}

func TestUserIDWithMultipleNames(t *testing.T) {
	batch := &feed.Batch{
		Total: 2,
		Items: []feed.Record{
			msg("m1", "u1", "Layla Ahmed", "2024-03-01T10:00:00Z", "hi"),
			msg("m2", "u1", "Layla A.", "2024-03-02T10:00:00Z", "hello"),
		},
	}

	rep := analyze(t, batch)
	assert.True(t, findingWith(rep, "1 user IDs with multiple names"))
}

func TestTimestampParsingAndRange(t *testing.T) {
	batch := &feed.Batch{
		Total: 3,
		Items: []feed.Record{
			msg("m1", "u1", "Amira Hassan", "2024-03-05T10:00:00Z", "hi"),
			msg("m2", "u2", "Vikram Desai", "2024-03-01T08:30:00Z", "hello"),
			msg("m3", "u3", "Layla Ahmed", "not-a-timestamp", "hey"),
		},
	}

	var buf bytes.Buffer
	rep := analyze(t, batch, WithOutput(&buf))

	assert.True(t, findingWith(rep, "1 unparseable timestamps"))
	// unparseable entries never enter the date range
	assert.Contains(t, buf.String(), "Earliest: 2024-03-01 08:30:00")
	assert.Contains(t, buf.String(), "Latest: 2024-03-05 10:00:00")
}

func TestFutureTimestampsObserved(t *testing.T) {
	batch := &feed.Batch{
		Total: 2,
		Items: []feed.Record{
			msg("m1", "u1", "Amira Hassan", "2024-03-01T10:00:00Z", "hi"),
			msg("m2", "u2", "Vikram Desai", "2030-01-01T00:00:00Z", "scheduled"),
		},
	}

	rep := analyze(t, batch, WithClock(clockAt("2025-06-01T00:00:00Z")))
	assert.True(t, findingWith(rep, "1 future timestamps"))
}

func TestSingleEmptyMessageCounted(t *testing.T) {
	batch := &feed.Batch{
		Total: 3,
		Items: []feed.Record{
			msg("m1", "u1", "Amira Hassan", "2024-03-01T10:00:00Z", "hello there"),
			msg("m2", "u2", "Vikram Desai", "2024-03-02T10:00:00Z", ""),
			msg("m3", "u3", "Layla Ahmed", "2024-03-03T10:00:00Z", "good morning"),
		},
	}

	rep := analyze(t, batch)
	assert.True(t, findingWith(rep, "1 empty messages"))
}

func TestTopicAndPatternClassification(t *testing.T) {
	batch := &feed.Batch{
		Total: 3,
		Items: []feed.Record{
			msg("m1", "u1", "Amira Hassan", "2024-03-01T10:00:00Z", "Booked a flight to London on 2024-05-01"),
			msg("m2", "u2", "Vikram Desai", "2024-03-02T10:00:00Z", "Dinner reservation at the new restaurant"),
			msg("m3", "u3", "Layla Ahmed", "2024-03-03T10:00:00Z", "Got 2 tickets for the concert"),
		},
	}

	var buf bytes.Buffer
	analyze(t, batch, WithOutput(&buf))

	out := buf.String()
	assert.Contains(t, out, "Messages with dates: 1 (33.3%)")
	assert.Contains(t, out, "Messages with numbers: 2 (66.7%)")
	assert.Contains(t, out, "Travel-related: 1 messages (33.3%)")
	assert.Contains(t, out, "Food/Dining: 1 messages (33.3%)")
	assert.Contains(t, out, "Events/Entertainment: 1 messages (33.3%)")
}

func TestDuplicateIDs(t *testing.T) {
	batch := &feed.Batch{
		Total: 3,
		Items: []feed.Record{
			msg("a", "u1", "Amira Hassan", "2024-03-01T10:00:00Z", "one"),
			msg("a", "u2", "Vikram Desai", "2024-03-02T10:00:00Z", "two"),
			msg("b", "u3", "Layla Ahmed", "2024-03-03T10:00:00Z", "three"),
		},
	}

	var buf bytes.Buffer
	rep := analyze(t, batch, WithOutput(&buf))

	assert.True(t, findingWith(rep, "1 duplicate message IDs"))
	assert.Contains(t, buf.String(), "ID a: appears 2 times")
}

func TestDuplicateContent(t *testing.T) {
	batch := &feed.Batch{
		Total: 3,
		Items: []feed.Record{
			msg("m1", "u1", "Amira Hassan", "2024-03-01T10:00:00Z", "same text"),
			msg("m2", "u2", "Vikram Desai", "2024-03-02T10:00:00Z", "same text"),
			msg("m3", "u3", "Layla Ahmed", "2024-03-03T10:00:00Z", "different"),
		},
	}

	rep := analyze(t, batch)
	assert.True(t, findingWith(rep, "1 duplicate message contents"))
}

func TestMissingValuesNeverMatchEachOther(t *testing.T) {
	batch := &feed.Batch{
		Total: 2,
		Items: []feed.Record{
			{feed.FieldUserName: feed.Text("Amira Hassan")},
			{feed.FieldUserName: feed.Text("Vikram Desai")},
		},
	}

	rep := analyze(t, batch)
	assert.False(t, findingWith(rep, "duplicate message IDs"))
	assert.False(t, findingWith(rep, "duplicate message contents"))
}

func TestZeroRecordBatch(t *testing.T) {
	rep := analyze(t, &feed.Batch{Total: 0, Items: nil})

	assert.Equal(t, 0, rep.MessagesAnalyzed)
	assert.Equal(t, 0, rep.UniqueMembers)
	assert.Empty(t, rep.Findings)
	assert.NotNil(t, rep.Findings)
	assert.NotNil(t, rep.MemberList)
	assert.Equal(t, StatusCompleted, rep.AnalysisStatus)
}

func TestIdempotence(t *testing.T) {
	batch := &feed.Batch{
		Total: 3,
		Items: []feed.Record{
			msg("a", "u1", "Amira Hassan", "2024-03-01T10:00:00Z", "same text"),
			msg("a", "u1", "Amira H.", "bad-ts", "same text"),
			msg("b", "u2", "Vikram Desai", "2030-01-01T00:00:00Z", ""),
		},
	}

	a := New(DefaultConfig(), WithOutput(io.Discard), WithClock(clockAt("2025-06-01T00:00:00Z")))
	first, err := a.Analyze(batch)
	require.NoError(t, err)
	second, err := a.Analyze(batch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReportMemberList(t *testing.T) {
	batch := &feed.Batch{
		Total: 3,
		Items: []feed.Record{
			msg("m1", "u1", "Vikram Desai", "2024-03-01T10:00:00Z", "one"),
			msg("m2", "u2", "Amira Hassan", "2024-03-02T10:00:00Z", "two"),
			msg("m3", "u1", "Vikram Desai", "2024-03-03T10:00:00Z", "three"),
		},
	}

	rep := analyze(t, batch)
	assert.Equal(t, 2, rep.UniqueMembers)
	assert.Equal(t, []string{"Amira Hassan", "Vikram Desai"}, rep.MemberList)
}

func TestReportJSONKeySet(t *testing.T) {
	rep := analyze(t, &feed.Batch{Total: 0, Items: nil})

	out, err := json.Marshal(rep)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &doc))

	want := []string{
		"total_messages", "messages_analyzed", "unique_members",
		"findings", "member_list", "timestamp", "analysis_status",
	}
	assert.Len(t, doc, len(want))
	for _, key := range want {
		assert.Contains(t, doc, key)
	}
}

func TestConsoleSectionsAndGuarantees(t *testing.T) {
	batch := &feed.Batch{
		Total: 1,
		Items: []feed.Record{
			msg("m1", "u1", "Amira Hassan", "2024-03-01T10:00:00Z", "hello"),
		},
	}

	var buf bytes.Buffer
	rep := analyze(t, batch, WithOutput(&buf))
	require.Empty(t, rep.Findings)

	out := buf.String()
	for _, section := range []string{
		"1. Schema Consistency Check",
		"2. Data Type Consistency Check",
		"3. User Name Analysis",
		"4. Timestamp Analysis",
		"5. Message Content Analysis",
		"6. Duplicate Detection",
		"7. Data Insights & Member Activity",
		"SUMMARY OF FINDINGS",
	} {
		assert.Contains(t, out, section)
	}

	// a clean run states what was verified
	assert.Contains(t, out, "All schemas are consistent")
	assert.Contains(t, out, "All data types are uniform")
	assert.Contains(t, out, "No duplicate IDs or messages")
	assert.Contains(t, out, "All timestamps are valid")
	assert.Contains(t, out, "No empty messages")
}

func TestTruncate(t *testing.T) {
	long := "this message body is definitely longer than fifty characters in total"
	got := truncate(long, 50)
	assert.Len(t, []rune(got), 53)
	assert.Contains(t, got, "...")

	assert.Equal(t, "short", truncate("short", 50))
}
