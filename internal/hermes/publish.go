package hermes

import "fmt"

func (e RankingComputedEvent) MessageID() string { return e.RunID + ".computed" }
func (e RankingFallbackEvent) MessageID() string { return e.RunID + ".fallback" }
func (e DatasetImportedEvent) MessageID() string {
	return fmt.Sprintf("dataset.%s.%d", e.Source, e.Timestamp.UnixNano())
}

// PublishRankingComputed announces a finished ranking run.
func PublishRankingComputed(c Client, evt RankingComputedEvent) error {
	return c.Publish(SubjectRankingComputed(evt.RunID), evt)
}

// PublishRankingFallback announces that a run fell back to equal weights.
func PublishRankingFallback(c Client, evt RankingFallbackEvent) error {
	return c.Publish(SubjectRankingFallback(evt.RunID), evt)
}

// PublishDatasetImported tells running servers that the dataset changed.
func PublishDatasetImported(c Client, evt DatasetImportedEvent) error {
	return c.Publish(SubjectDatasetImported, evt)
}
