package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBin_Validate(t *testing.T) {
	tests := []struct {
		name      string
		input     NewBin
		wantField string
	}{
		{name: "valid", input: NewBin{Title: "Note", Content: "Hello"}},
		{name: "missing title", input: NewBin{Content: "Hello"}, wantField: "title"},
		{name: "blank title", input: NewBin{Title: "   ", Content: "Hello"}, wantField: "title"},
		{name: "missing content", input: NewBin{Title: "Note"}, wantField: "content"},
		{name: "both missing reports title first", input: NewBin{}, wantField: "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidBin))

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestNewBin_BuildNormalizesTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2026, 3, 1, 14, 30, 0, 123456789, loc)

	bin := NewBin{Title: "Note", Content: "Hello"}.Build("1772368200123", now)

	assert.Equal(t, "1772368200123", bin.ID)
	assert.Equal(t, "Note", bin.Title)
	assert.Equal(t, "Hello", bin.Content)
	assert.Equal(t, time.UTC, bin.CreatedAt.Location())
	assert.Equal(t, 123000000, bin.CreatedAt.Nanosecond())
	assert.True(t, bin.CreatedAt.Equal(now.Truncate(time.Millisecond)))
}

func TestBin_JSONUsesMillisecondTimestamp(t *testing.T) {
	bin := Bin{
		ID:        "1",
		Title:     "Note",
		Content:   "Hello",
		CreatedAt: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(bin)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","title":"Note","content":"Hello","createdAt":"2026-02-10T12:00:00.000Z"}`, string(data))

	var decoded Bin
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, bin, decoded)
}
