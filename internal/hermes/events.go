package hermes

import "time"

type RankedEntry struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Rank         int     `json:"rank"`
	DisplayScore float64 `json:"display_score"`
}

type RankingComputedEvent struct {
	RunID            string             `json:"run_id"`
	Mode             string             `json:"mode"`
	Candidates       int                `json:"candidates"`
	Weights          map[string]float64 `json:"weights"`
	ConsistencyRatio float64            `json:"consistency_ratio"`
	Projected        bool               `json:"projected"`
	Fallback         bool               `json:"fallback"`
	Top              []RankedEntry      `json:"top,omitempty"`
	DurationMs       int64              `json:"duration_ms"`
	Timestamp        time.Time          `json:"timestamp"`
}

type RankingFallbackEvent struct {
	RunID     string    `json:"run_id"`
	Stage     string    `json:"stage"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

type DatasetImportedEvent struct {
	Source    string    `json:"source"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}
