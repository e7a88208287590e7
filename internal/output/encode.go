package output

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/viankakrisna/create-react-app-extra/internal/sizemap"
)

// AssetSize is one row of a size table.
type AssetSize struct {
	// File is the emitted path relative to the build root.
	File string `json:"file" yaml:"file"`
	// Asset is the hash-free identifier of File.
	Asset string `json:"asset" yaml:"asset"`
	Bytes int64  `json:"bytes" yaml:"bytes"`
	Human string `json:"human" yaml:"human"`
}

// Rows converts measured entries into table rows, keeping their order.
func Rows(entries []sizemap.Entry) []AssetSize {
	rows := make([]AssetSize, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, AssetSize{
			File:  e.Name,
			Asset: sizemap.Identifier("", e.Name),
			Bytes: e.Size,
			Human: sizemap.FormatBytes(e.Size),
		})
	}

	return rows
}

// Entries converts rows back into measured entries.
func Entries(rows []AssetSize) []sizemap.Entry {
	entries := make([]sizemap.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, sizemap.Entry{Name: r.File, Size: r.Bytes})
	}

	return entries
}

// Encoder renders a size table.
type Encoder func(rows []AssetSize) ([]byte, error)

// EncodeJSON renders rows as an indented JSON array.
func EncodeJSON(rows []AssetSize) ([]byte, error) {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}

	return append(data, '\n'), nil
}

// EncodeYAML renders rows as a YAML sequence.
func EncodeYAML(rows []AssetSize) ([]byte, error) {
	data, err := yaml.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}

	return data, nil
}
