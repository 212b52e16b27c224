package reviews

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-json"
)

// ErrNoAggregateRating means the structured data has no aggregateRating to
// patch. Callers treat it as a best-effort miss.
var ErrNoAggregateRating = errors.New("reviews: schema has no aggregateRating")

// PatchAggregateRating rewrites aggregateRating.ratingValue and reviewCount
// in a schema.org JSON-LD document. Values are written as strings.
func PatchAggregateRating(doc []byte, rating float64, count int) ([]byte, error) {
	var schema map[string]any
	if err := json.Unmarshal(doc, &schema); err != nil {
		return nil, fmt.Errorf("reviews: parse schema: %w", err)
	}
	agg, ok := schema["aggregateRating"].(map[string]any)
	if !ok {
		return nil, ErrNoAggregateRating
	}
	agg["ratingValue"] = strconv.FormatFloat(rating, 'f', -1, 64)
	agg["reviewCount"] = strconv.Itoa(count)
	return json.MarshalIndent(schema, "", "  ")
}

var ldJSON = regexp.MustCompile(`(?is)(<script[^>]*type=["']application/ld\+json["'][^>]*>)(.*?)(</script>)`)

// PatchPage patches the first JSON-LD block in an HTML page. The page is
// returned unchanged along with the error when the block is missing or
// malformed.
func PatchPage(page []byte, rating float64, count int) ([]byte, error) {
	m := ldJSON.FindSubmatchIndex(page)
	if m == nil {
		return page, ErrNoAggregateRating
	}
	patched, err := PatchAggregateRating(page[m[4]:m[5]], rating, count)
	if err != nil {
		return page, err
	}
	var out bytes.Buffer
	out.Grow(len(page) + len(patched))
	out.Write(page[:m[4]])
	out.WriteByte('\n')
	out.Write(patched)
	out.WriteByte('\n')
	out.Write(page[m[5]:])
	return out.Bytes(), nil
}
