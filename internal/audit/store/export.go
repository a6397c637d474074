package store

import (
	"encoding/json"
	"fmt"

	"consentvault/internal/audit/models"
	"consentvault/internal/audit/outbox"
)

const aggregateType = "audit_record"

func exportEntry(record *models.Record) (*outbox.Entry, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode audit record: %w", err)
	}
	return outbox.NewEntry(aggregateType, record.ID.String(), "audit."+string(record.Action), payload, record.OccurredAt), nil
}
