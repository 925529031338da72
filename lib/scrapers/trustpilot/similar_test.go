package trustpilot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinkSimilar(t *testing.T) {
	companies := []Company{
		{ID: "a", Name: "Acme Corp"},
		{ID: "b", Name: "ACME corp"},
		{ID: "c", Name: "Totally Different Business"},
	}

	LinkSimilar(companies)

	require.Len(t, companies[0].SimilarBusinessUnits, 1)
	require.Len(t, companies[1].SimilarBusinessUnits, 1)
	require.Empty(t, companies[2].SimilarBusinessUnits)

	link := companies[0].SimilarBusinessUnits[0]
	require.Equal(t, "b", link["id"])
	require.Equal(t, "ACME corp", link["name"])
	score, ok := link["similarity"].(float64)
	require.True(t, ok)
	require.GreaterOrEqual(t, score, 0.92)

	// symmetric: the reverse link carries the same score
	back := companies[1].SimilarBusinessUnits[0]
	require.Equal(t, "a", back["id"])
	require.Equal(t, score, back["similarity"])
}

func TestLinkSimilarNoSelfLink(t *testing.T) {
	companies := []Company{{ID: "only", Name: "Solo Business"}}
	LinkSimilar(companies)
	require.NotNil(t, companies[0].SimilarBusinessUnits)
	require.Empty(t, companies[0].SimilarBusinessUnits)
}

func TestLinkSimilarSkipsUnnamed(t *testing.T) {
	companies := []Company{
		{ID: "a", Name: ""},
		{ID: "b", Name: ""},
	}
	LinkSimilar(companies)
	require.Empty(t, companies[0].SimilarBusinessUnits)
	require.Empty(t, companies[1].SimilarBusinessUnits)
}
