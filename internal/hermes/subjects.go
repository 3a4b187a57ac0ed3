package hermes

import "time"

const (
	SubjectDatasetImported = "locus.dataset.imported"

	StreamName = "LOCUS_EVENTS"

	DefaultStreamMaxAge = 30 * 24 * time.Hour
	DuplicateWindow     = 2 * time.Minute
)

func SubjectRankingComputed(runID string) string { return "locus.ranking." + runID + ".computed" }
func SubjectRankingFallback(runID string) string { return "locus.ranking." + runID + ".fallback" }

// StreamSubjects are captured by the LOCUS_EVENTS stream.
func StreamSubjects() []string {
	return []string{"locus.ranking.>", "locus.dataset.>"}
}
