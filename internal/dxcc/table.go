// Package dxcc resolves amateur-radio callsigns to DXCC entities by
// longest-prefix match over an entity table.
package dxcc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Entity is one row of the DXCC table. Prefix is a comma-separated list.
type Entity struct {
	EntityCode int    `json:"entityCode"`
	Name       string `json:"name"`
	Prefix     string `json:"prefix"`
	Deleted    bool   `json:"deleted"`
}

type tableFile struct {
	DXCC json.RawMessage `json:"dxcc"`
}

// ParseTable decodes a {"dxcc": [...]} document. A missing or non-array
// "dxcc" key yields an empty table and null rows are skipped.
func ParseTable(data []byte) ([]Entity, error) {
	var doc tableFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse dxcc table: %w", err)
	}

	var rows []*Entity
	if err := json.Unmarshal(doc.DXCC, &rows); err != nil {
		return nil, nil
	}

	entities := make([]Entity, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			continue
		}
		entities = append(entities, *r)
	}
	return entities, nil
}

// LoadTable reads and parses a DXCC table.
func LoadTable(r io.Reader) ([]Entity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dxcc table: %w", err)
	}
	return ParseTable(data)
}

// LoadTableFile reads a DXCC table from disk.
func LoadTableFile(path string) ([]Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dxcc table: %w", err)
	}
	defer f.Close()
	return LoadTable(f)
}
