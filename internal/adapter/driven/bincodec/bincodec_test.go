package bincodec

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/binvault/internal/domain/model"
	"github.com/ericfisherdev/binvault/internal/domain/port/driven"
)

func TestDecode_EmptyInputs(t *testing.T) {
	for _, input := range []string{"", "  \n", "null", "[]"} {
		c, err := Decode([]byte(input), "bins.json")

		require.NoError(t, err, "input %q", input)
		assert.NotNil(t, c.Bins(), "input %q", input)
		assert.Empty(t, c.Bins(), "input %q", input)
		assert.Equal(t, 0, c.Len(), "input %q", input)
	}
}

func TestDecode_Corrupt(t *testing.T) {
	tests := map[string]string{
		"not json":        "not json",
		"object":          `{"id":"1"}`,
		"bad record type": `[{"id":1}]`,
		"bad timestamp":   `[{"id":"1","title":"t","content":"c","createdAt":"yesterday"}]`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(input), "bins.json")

			require.Error(t, err)
			assert.ErrorIs(t, err, driven.ErrCorruptStore)
			assert.Contains(t, err.Error(), "bins.json")
		})
	}
}

func TestAppend_PreservesExistingRecordsVerbatim(t *testing.T) {
	existing := `[
  {"id":"1","title":"Note","content":"Hello","createdAt":"2025-02-10T12:00:00.123456Z","views":3}
]`
	c, err := Decode([]byte(existing), "bins.json")
	require.NoError(t, err)

	require.NoError(t, c.Append(model.Bin{
		ID:        "2",
		Title:     "Second",
		Content:   "World",
		CreatedAt: time.Date(2025, 2, 10, 12, 0, 1, 0, time.UTC),
	}))
	data, err := c.Encode()
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)

	assert.Equal(t, "2025-02-10T12:00:00.123456Z", records[0]["createdAt"])
	assert.InDelta(t, 3, records[0]["views"], 0)
	assert.Equal(t, "2", records[1]["id"])
	assert.Equal(t, "2025-02-10T12:00:01.000Z", records[1]["createdAt"])

	require.Len(t, c.Bins(), 2)
	assert.Equal(t, "Second", c.Bins()[1].Title)
}

func TestEncode_NilIsEmptyArray(t *testing.T) {
	data, err := Encode(nil)

	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestEncode_EmptyCollection(t *testing.T) {
	c, err := Decode(nil, "bins.json")
	require.NoError(t, err)

	data, err := c.Encode()

	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
