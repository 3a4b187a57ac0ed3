package hermes

import (
	"encoding/json"
	"log/slog"
)

// OnDatasetImported calls fn for every dataset import announced on the bus.
// Undecodable payloads are logged and dropped.
func OnDatasetImported(c Client, logger *slog.Logger, fn func(DatasetImportedEvent)) error {
	return c.Subscribe(SubjectDatasetImported, func(subject string, data []byte) {
		var evt DatasetImportedEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			logger.Warn("bad dataset event", "subject", subject, "error", err)
			return
		}
		fn(evt)
	})
}
