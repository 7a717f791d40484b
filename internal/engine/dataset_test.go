package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-onthisday/internal/engine"
)

const familyJSON = `{
  "generations": [
    {
      "persons": [
        {"firstName": "Ada", "lastName": "Lovelace", "birth": {"date": "14 Feb 1825"}},
        {"id": 17, "birth": {"date": null}, "death": {"date": "15 Feb 1901"}},
        null,
        {"firstName": "Charles", "lastName": "Babbage", "marriages": [null, {"marriageDate": "14 Feb 1814", "spouseName": null}]}
      ]
    },
    {},
    null,
    {"persons": null}
  ]
}`

func TestDecodeDataset_ToleratesNullsAndScalars(t *testing.T) {
	ds, err := engine.DecodeDataset([]byte(familyJSON))
	require.NoError(t, err)
	require.Len(t, ds.Generations, 4)

	persons := ds.Generations[0].Persons
	require.Len(t, persons, 4)
	assert.Equal(t, engine.Text("17"), persons[1].ID, "numeric ids decode as text")
	assert.Equal(t, "17", persons[1].DisplayName())
	assert.Nil(t, persons[2])

	h := engine.Collect(ds, engine.CalendarDate{Year: 2024, Month: time.February, Day: 14})
	assert.Equal(t, []string{
		"Ada Lovelace was born in 1825.",
		"Charles Babbage married Unknown in 1814.",
	}, h.Today)
	assert.Equal(t, []string{"17 died in 1901."}, h.Tomorrow)
}

func TestDecodeDataset_EmptyDocument(t *testing.T) {
	ds, err := engine.DecodeDataset([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, engine.Events(ds))
}

func TestDecodeDataset_Errors(t *testing.T) {
	for name, doc := range map[string]string{
		"not json":           `<html>`,
		"generations object": `{"generations": {"persons": []}}`,
		"name is an object":  `{"generations": [{"persons": [{"firstName": {"x": 1}}]}]}`,
		"date is an array":   `{"generations": [{"persons": [{"birth": {"date": ["14 Feb 1825"]}}]}]}`,
		"truncated document": `{"generations": [`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := engine.DecodeDataset([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeDataset_NonObjectRecordsAreAbsent(t *testing.T) {
	doc := `{"generations": [
		"not a generation",
		{"persons": [
			{"firstName": "Scalar", "lastName": "Birth", "birth": "14 Feb 1900", "death": ["14 Feb 1950"]},
			{"firstName": "Odd", "lastName": "Marriages", "marriages": [1, "x", {"marriageDate": "14 Feb 1920", "spouseName": "Eve"}]},
			42,
			{"firstName": "Ada", "lastName": "Lovelace", "birth": {"date": "14 Feb 1825"}}
		]}
	]}`

	ds, err := engine.DecodeDataset([]byte(doc))
	require.NoError(t, err)
	require.Len(t, ds.Generations, 2)
	assert.Empty(t, ds.Generations[0].Persons)

	persons := ds.Generations[1].Persons
	require.Len(t, persons, 4)
	assert.Empty(t, persons[0].Birth.Date)
	assert.Equal(t, "Unknown", persons[2].DisplayName())

	h := engine.Collect(ds, engine.CalendarDate{Year: 2024, Month: time.February, Day: 14})
	assert.Equal(t, []string{
		"Odd Marriages married Eve in 1920.",
		"Ada Lovelace was born in 1825.",
	}, h.Today)
	assert.Empty(t, h.Tomorrow)
}

func TestText_Scalars(t *testing.T) {
	ds, err := engine.DecodeDataset([]byte(`{"generations":[{"persons":[{"firstName": true, "lastName": 1.5}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, "true 1.5", ds.Generations[0].Persons[0].DisplayName())
}
