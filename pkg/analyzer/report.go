package analyzer

import "time"

// StatusCompleted is the status marker set on every report the analyzer
// finishes.
const StatusCompleted = "completed"

// Report is the immutable result of one analysis run. The JSON key set is
// fixed; downstream consumers key on it.
type Report struct {
	TotalMessages    int       `json:"total_messages"`
	MessagesAnalyzed int       `json:"messages_analyzed"`
	UniqueMembers    int       `json:"unique_members"`
	Findings         []string  `json:"findings"`
	MemberList       []string  `json:"member_list"`
	Timestamp        time.Time `json:"timestamp"`
	AnalysisStatus   string    `json:"analysis_status"`
}
