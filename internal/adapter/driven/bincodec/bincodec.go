// Package bincodec reads and writes the bins.json document shared by the
// file-based stores: a single JSON array of bin records.
package bincodec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ericfisherdev/binvault/internal/domain/model"
	"github.com/ericfisherdev/binvault/internal/domain/port/driven"
)

// Collection is a decoded bins.json document. Each stored record is kept as
// read, so rewriting the document preserves fields this service does not
// know about and the original createdAt text.
type Collection struct {
	records []json.RawMessage
	bins    []model.Bin
}

// Decode parses data as a JSON array of bins. Empty input and "null" are an
// empty collection. Anything else that is not an array of bins wraps
// driven.ErrCorruptStore; source names the document in the error.
func Decode(data []byte, source string) (*Collection, error) {
	c := &Collection{records: []json.RawMessage{}, bins: []model.Bin{}}
	if len(bytes.TrimSpace(data)) == 0 {
		return c, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", driven.ErrCorruptStore, source, err)
	}

	for i, raw := range records {
		var b model.Bin
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("%w: parse %s: record %d: %v", driven.ErrCorruptStore, source, i, err)
		}
		c.records = append(c.records, raw)
		c.bins = append(c.bins, b)
	}

	return c, nil
}

// Bins returns the decoded bins in document order. The slice is never nil.
func (c *Collection) Bins() []model.Bin {
	return c.bins
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// Append adds bin as the last record.
func (c *Collection) Append(bin model.Bin) error {
	raw, err := json.Marshal(bin)
	if err != nil {
		return fmt.Errorf("encode bin %s: %w", bin.ID, err)
	}
	c.records = append(c.records, raw)
	c.bins = append(c.bins, bin)
	return nil
}

// Encode writes the collection as a two-space indented JSON array.
func (c *Collection) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(c.records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode bins: %w", err)
	}
	return data, nil
}

// Encode writes bins as a two-space indented JSON array. A nil slice encodes
// as an empty array.
func Encode(bins []model.Bin) ([]byte, error) {
	if bins == nil {
		bins = []model.Bin{}
	}

	data, err := json.MarshalIndent(bins, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode bins: %w", err)
	}
	return data, nil
}
