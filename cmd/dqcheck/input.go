package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"dqengine/internal/quality/models"
)

// readRecords loads one record object or an array of records from path, or
// from stdin when path is "-". single reports whether the input was an object.
func readRecords(path string, stdin io.Reader) (records []models.Record, single bool, err error) {
	var raw []byte
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false, errors.New("input is empty")
	}

	if raw[0] == '{' {
		var rec models.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, false, fmt.Errorf("decode record: %w", err)
		}
		return []models.Record{rec}, true, nil
	}

	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false, fmt.Errorf("decode records: %w", err)
	}
	for i, rec := range records {
		if rec == nil {
			records[i] = models.Record{}
		}
	}
	return records, false, nil
}
