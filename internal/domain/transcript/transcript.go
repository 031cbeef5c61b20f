// Package transcript defines the relational transcript entity produced by
// ingestion and read by the query side.
package transcript

import "time"

// IdentityKey is the metadata key linking a vector document to its
// relational transcript record.
const IdentityKey = "transcript_id"

// KeywordFreq is one extracted keyword with its in-transcript frequency.
type KeywordFreq struct {
	Keyword   string
	Frequency int
}

// Record is a stored voice-memo transcript. Created once at ingestion;
// read-only afterwards.
type Record struct {
	ID              int64
	Filename        string
	RecordingDate   time.Time
	TranscriptDate  time.Time
	DurationSeconds int
	FilePath        string
	Text            string
	WordCount       int
	Keywords        []KeywordFreq
}

// RecordingDay returns the recording date as an ISO YYYY-MM-DD string.
func (r *Record) RecordingDay() string {
	return r.RecordingDate.Format("2006-01-02")
}
