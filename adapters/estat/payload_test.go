package estat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eurobase/core/types"
	"eurobase/internal/errors"
)

func payloadDatasetFixture() *types.Dataset {
	return &types.Dataset{
		Code: "nama_10_gdp",
		Dimensions: []types.Dimension{
			{Name: "geo", Codes: []string{"AT", "BE"}},
			{Name: "time", Codes: []string{"2021", "2022", "2023"}},
		},
	}
}

func TestParsePayload(t *testing.T) {
	ds := payloadDatasetFixture()

	// 2 geo x 3 time, values keyed by linear index, last dimension
	// fastest. Index 1 carries a provisional flag, index 5 is a
	// status-only confidential cell, index 2 has no entry at all.
	body := []byte(`{
		"version": "2.0",
		"class": "dataset",
		"id": ["geo", "time"],
		"size": [2, 3],
		"dimension": {
			"geo":  {"category": {"index": {"AT": 0, "BE": 1}}},
			"time": {"category": {"index": {"2021": 0, "2022": 1, "2023": 2}}}
		},
		"value": {"0": 402.5, "1": 417, "3": 503.1, "4": 521.9},
		"status": {"1": "p", "5": "c"}
	}`)

	cells, err := ParsePayload(ds, body)
	require.NoError(t, err)
	require.Len(t, cells, 5)

	byKey := make(map[types.Key]types.Cell, len(cells))
	for _, c := range cells {
		byKey[c.Key()] = c
	}

	at2021 := byKey["AT:2021"]
	assert.Equal(t, "402.5", at2021.Value.String())
	assert.Empty(t, at2021.Status)
	assert.False(t, at2021.Missing)

	at2022 := byKey["AT:2022"]
	assert.Equal(t, "417", at2022.Value.String())
	assert.Equal(t, "p", at2022.Status)

	be2023 := byKey["BE:2023"]
	assert.True(t, be2023.Missing)
	assert.Equal(t, "c", be2023.Status)

	_, present := byKey["AT:2023"]
	assert.False(t, present, "index 2 has neither value nor status")
}

func TestParsePayloadReordersDimensions(t *testing.T) {
	ds := payloadDatasetFixture()

	// Payload lists time before geo; coordinates must still come out in
	// declared dataset order (geo, time).
	body := []byte(`{
		"class": "dataset",
		"id": ["time", "geo"],
		"size": [3, 2],
		"dimension": {
			"geo":  {"category": {"index": {"AT": 0, "BE": 1}}},
			"time": {"category": {"index": {"2021": 0, "2022": 1, "2023": 2}}}
		},
		"value": {"5": 99}
	}`)

	cells, err := ParsePayload(ds, body)
	require.NoError(t, err)
	require.Len(t, cells, 1)
	// linear 5 = time position 2, geo position 1.
	assert.Equal(t, []string{"BE", "2023"}, cells[0].Coordinates)
}

func TestParsePayloadErrors(t *testing.T) {
	ds := payloadDatasetFixture()

	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>maintenance</html>`},
		{"id size mismatch", `{"id": ["geo"], "size": [2, 3], "dimension": {}}`},
		{"unknown dimension", `{
			"id": ["planet"], "size": [1],
			"dimension": {"planet": {"category": {"index": {"EARTH": 0}}}},
			"value": {"0": 1}
		}`},
		{"index out of range", `{
			"id": ["geo"], "size": [1],
			"dimension": {"geo": {"category": {"index": {"AT": 0, "BE": 7}}}},
			"value": {"0": 1}
		}`},
		{"value outside category space", `{
			"id": ["geo"], "size": [2],
			"dimension": {"geo": {"category": {"index": {"AT": 0, "BE": 1}}}},
			"value": {"9": 1}
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload(ds, []byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeParsing), "got %v", err)
		})
	}
}
