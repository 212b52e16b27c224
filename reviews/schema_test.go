package reviews

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaDoc = `{
  "@context": "https://schema.org",
  "@type": "Dentist",
  "name": "Clínica",
  "aggregateRating": {"@type": "AggregateRating", "ratingValue": "5.0", "reviewCount": "12"}
}`

func TestPatchAggregateRating(t *testing.T) {
	out, err := PatchAggregateRating([]byte(schemaDoc), 4.8, 57)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	agg := got["aggregateRating"].(map[string]any)
	assert.Equal(t, "4.8", agg["ratingValue"])
	assert.Equal(t, "57", agg["reviewCount"])
	assert.Equal(t, "Dentist", got["@type"])
	assert.Contains(t, string(out), "\n  \"aggregateRating\"")
}

func TestPatchAggregateRatingMissing(t *testing.T) {
	_, err := PatchAggregateRating([]byte(`{"@type":"Dentist"}`), 4.8, 57)
	assert.ErrorIs(t, err, ErrNoAggregateRating)

	_, err = PatchAggregateRating([]byte(`{oops`), 4.8, 57)
	assert.Error(t, err)
}

func TestPatchPage(t *testing.T) {
	page := []byte(`<html><head><script type="application/ld+json">` + schemaDoc + `</script></head><body></body></html>`)
	out, err := PatchPage(page, 4.5, 9)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"ratingValue": "4.5"`)
	assert.Contains(t, string(out), `"reviewCount": "9"`)
	assert.Contains(t, string(out), `</script></head><body></body></html>`)

	plain := []byte(`<html><body>sem schema</body></html>`)
	out, err = PatchPage(plain, 4.5, 9)
	assert.ErrorIs(t, err, ErrNoAggregateRating)
	assert.Equal(t, plain, out)
}
