package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/borgmon/fast-alarm/pkg/models"
)

const recordKey = "alarmData"

// RecordStore persists the day's alarm record
type RecordStore struct {
	kv KV
}

// NewRecordStore creates a new RecordStore instance
func NewRecordStore(kv KV) *RecordStore {
	return &RecordStore{kv: kv}
}

// Load returns the stored record, or nil if there is none
func (rs *RecordStore) Load() (*models.AlarmRecord, error) {
	data, err := rs.kv.Get(recordKey)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read alarm record: %w", err)
	}

	record := &models.AlarmRecord{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("decode alarm record: %w", err)
	}
	return record, nil
}

// Save overwrites the stored record
func (rs *RecordStore) Save(record *models.AlarmRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode alarm record: %w", err)
	}
	if err := rs.kv.Set(recordKey, data); err != nil {
		return fmt.Errorf("write alarm record: %w", err)
	}
	return nil
}

// Delete removes the stored record
func (rs *RecordStore) Delete() error {
	if err := rs.kv.Remove(recordKey); err != nil {
		return fmt.Errorf("remove alarm record: %w", err)
	}
	return nil
}
