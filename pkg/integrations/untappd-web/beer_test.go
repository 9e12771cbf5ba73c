package untappdweb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDegree(t *testing.T) {
	degree := extractDegree(BeerScraped{ABV: "8.2% ABV"})
	require.NotNil(t, degree)
	assert.InDelta(t, 8.2, *degree, 0.01)
}

func TestExtractDegree_TrimsWhitespace(t *testing.T) {
	degree := extractDegree(BeerScraped{ABV: "  14.3 % ABV"})
	require.NotNil(t, degree)
	assert.InDelta(t, 14.3, *degree, 0.01)
}

func TestExtractDegree_NoPercentSign(t *testing.T) {
	assert.Nil(t, extractDegree(BeerScraped{ABV: "N/A"}))
	assert.Nil(t, extractDegree(BeerScraped{}))
}

func TestBeerJSON_Unmarshal(t *testing.T) {
	payload := `{
		"description": "Saison aged on peaches.",
		"brand": {"name": "Paronomastic Brewing"},
		"image": {"contentUrl": "https://assets.untappd.com/photos/beer.jpeg"}
	}`

	var beer BeerJSON
	require.NoError(t, json.Unmarshal([]byte(payload), &beer))

	assert.Equal(t, "Saison aged on peaches.", beer.Description)
	assert.Equal(t, "Paronomastic Brewing", beer.Brand.Name)
	assert.Equal(t, "https://assets.untappd.com/photos/beer.jpeg", beer.Image.ContentURL)
}
