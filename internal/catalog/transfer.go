package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"telugudb/pkg/models"
)

// Skipped is an import entry that was not written.
type Skipped struct {
	Index  int    `json:"index"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Created []string  `json:"created"` // ids, in input order
	Skipped []Skipped `json:"skipped"`
}

// Import reads a JSON array of content documents and creates each valid
// entry in store. Entries that fail to decode or validate are skipped and
// reported; a store failure stops the import.
func Import(ctx context.Context, store Store, r io.Reader) (*ImportResult, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode import: expected a JSON array: %w", err)
	}

	res := &ImportResult{Created: []string{}, Skipped: []Skipped{}}
	for i, entry := range raw {
		var doc models.Content
		if err := json.Unmarshal(entry, &doc); err != nil {
			res.Skipped = append(res.Skipped, Skipped{Index: i, Reason: err.Error()})
			continue
		}
		doc.ID = ""

		if err := Validate(&doc); err != nil {
			res.Skipped = append(res.Skipped, Skipped{Index: i, Title: doc.Title, Reason: err.Error()})
			continue
		}
		if err := store.Create(ctx, &doc); err != nil {
			return res, fmt.Errorf("create entry %d (%q): %w", i, doc.Title, err)
		}
		res.Created = append(res.Created, doc.ID)
	}
	return res, nil
}

// Export writes every document in store order as an indented JSON array.
func Export(ctx context.Context, store Store, w io.Writer) (int, error) {
	items, err := store.List(ctx, Filter{})
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return 0, fmt.Errorf("encode export: %w", err)
	}
	return len(items), nil
}
