package handlers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"github.com/sashika20643/Soundpath-sub001/internal/models"
)

// buildEventQuery runs the filter through a dry-run session and returns the
// SQL and bound values it would execute.
func buildEventQuery(t *testing.T, f models.EventFilter) (string, []interface{}) {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	stmt := applyEventFilter(db.Model(&models.Event{}), db, f).Find(&[]models.Event{}).Statement
	return stmt.SQL.String(), stmt.Vars
}

func TestApplyEventFilterFacetIntersection(t *testing.T) {
	sql, vars := buildEventQuery(t, models.EventFilter{
		GenreIDs:   []string{"g1", "g2"},
		SettingIDs: []string{"s1"},
	})

	// Within a facet the values are alternatives; across facets the
	// conditions intersect.
	assert.Contains(t, sql, "genre_ids @> ? OR genre_ids @> ?")
	assert.Contains(t, sql, "setting_ids @> ?")
	assert.Contains(t, sql, " AND ")
	assert.NotContains(t, sql, "event_type_ids")
	assert.NotContains(t, sql, "tags")

	require.Len(t, vars, 3)
	assert.Equal(t, `["g1"]`, fmt.Sprint(vars[0]))
	assert.Equal(t, `["g2"]`, fmt.Sprint(vars[1]))
	assert.Equal(t, `["s1"]`, fmt.Sprint(vars[2]))
}

func TestApplyEventFilterFacetWithApproved(t *testing.T) {
	approved := true
	sql, vars := buildEventQuery(t, models.EventFilter{
		GenreIDs: []string{"g1"},
		Approved: &approved,
	})

	assert.Contains(t, sql, "genre_ids @> ?")
	assert.Contains(t, sql, "approved = ?")
	require.Len(t, vars, 2)
	assert.Equal(t, `["g1"]`, fmt.Sprint(vars[0]))
	assert.Equal(t, true, vars[1])
}

func TestApplyEventFilterApprovedTriState(t *testing.T) {
	sql, vars := buildEventQuery(t, models.EventFilter{})
	assert.NotContains(t, sql, "approved")
	assert.Empty(t, vars)

	approved := false
	sql, vars = buildEventQuery(t, models.EventFilter{Approved: &approved})
	assert.Contains(t, sql, "approved = ?")
	require.Len(t, vars, 1)
	assert.Equal(t, false, vars[0])
}

func TestApplyEventFilterLocationIsExactMatch(t *testing.T) {
	sql, vars := buildEventQuery(t, models.EventFilter{
		Continent: "Europe",
		Country:   "Germany",
		City:      "Berlin",
	})

	assert.Contains(t, sql, "continent = ?")
	assert.Contains(t, sql, "country = ?")
	assert.Contains(t, sql, "city = ?")
	assert.Equal(t, []interface{}{"Europe", "Germany", "Berlin"}, vars)
}

func TestApplyEventFilterSearchSpansDescriptions(t *testing.T) {
	sql, vars := buildEventQuery(t, models.EventFilter{Search: "berlin"})

	assert.Contains(t, sql, "title ILIKE ?")
	assert.Contains(t, sql, "short_description ILIKE ?")
	assert.Contains(t, sql, "long_description ILIKE ?")
	assert.Contains(t, sql, " OR ")

	require.Len(t, vars, 3)
	for _, v := range vars {
		assert.Equal(t, "%berlin%", v)
	}
}

func TestApplyEventFilterSearchEscapesWildcards(t *testing.T) {
	_, vars := buildEventQuery(t, models.EventFilter{Search: "100%_live"})

	require.Len(t, vars, 3)
	assert.Equal(t, `%100\%\_live%`, vars[0])
}
