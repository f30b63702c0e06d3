package kv

import (
	"encoding/json"
	"fmt"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

// Encode serializes the set into the persisted record format.
func Encode(set domain.CollectedSet) ([]byte, error) {
	body, err := json.Marshal(set.Record())
	if err != nil {
		return nil, fmt.Errorf("marshal collection: %w", err)
	}
	return body, nil
}

// Decode parses a persisted record. Empty input decodes to an empty set.
func Decode(body []byte) (domain.CollectedSet, error) {
	if len(body) == 0 {
		return domain.NewCollectedSet(), nil
	}
	var rec domain.CollectionRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal collection: %w", err)
	}
	return rec.Set(), nil
}
