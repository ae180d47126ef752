package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// SerializeQsoEvent marshals an enriched QSO into its sink form, keyed by the
// event ID.
func SerializeQsoEvent(event QsoEvent) (OutputEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize qso event: %w", err)
	}
	return OutputEvent{
		Key:   []byte(event.ID),
		Value: data,
		Headers: map[string]string{
			HeaderSourceFormat: event.SourceFormat,
			HeaderImportID:     event.ImportID,
			HeaderProcessedAt:  event.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
