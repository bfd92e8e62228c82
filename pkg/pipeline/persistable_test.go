package pipeline

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDatabase(t *testing.T) {
	t.Helper()
	require.NoError(t, CloseDatabase())
	Config.DatabasePath = filepath.Join(t.TempDir(), "footform-test.db")
	require.NoError(t, CreateTables())
	t.Cleanup(func() { CloseDatabase() })
}

func TestSaveAndFindTeamMatchRecord(t *testing.T) {
	testDatabase(t)

	r := teamRecord("arsenal", "2023-2024", 5, 1, 2, 1)
	r.XGFor = 1.75
	require.NoError(t, Save(r))

	loaded := &TeamMatchRecord{MatchID: r.MatchID, Team: r.Team}
	require.NoError(t, FindByPrimaryKey(loaded))

	assert.Equal(t, r.Opponent, loaded.Opponent)
	assert.Equal(t, 3, loaded.Points)
	assert.InDelta(t, 1.75, loaded.XGFor, 1e-9)
	assert.Equal(t, "2023-08-05", FormatDate(loaded.MatchDate))

	// NaN metrics go to NULL and come back as NaN
	assert.True(t, math.IsNaN(loaded.Possession))
	assert.True(t, math.IsNaN(loaded.OddsWin))
}

func TestSaveIsUpsert(t *testing.T) {
	testDatabase(t)

	r := teamRecord("chelsea", "2023-2024", 5, 0, 0, 0)
	require.NoError(t, Save(r))

	r.GoalsFor = 4
	require.NoError(t, Save(r))

	loaded := &TeamMatchRecord{MatchID: r.MatchID, Team: r.Team}
	require.NoError(t, FindByPrimaryKey(loaded))
	assert.Equal(t, 4, loaded.GoalsFor)

	results, err := FindWhere(&TeamMatchRecord{}, "team = ?", "chelsea")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestExistsAndDelete(t *testing.T) {
	testDatabase(t)

	r := teamRecord("fulham", "2023-2024", 5, 1, 1, 1)
	ok, err := Exists(r)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, Save(r))
	ok, err = Exists(r)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, Delete(r))
	ok, err = Exists(r)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBulkSaveAndFindWhereOrdering(t *testing.T) {
	testDatabase(t)

	rows := []Persistable{
		&ModelRow{MatchID: "2023-10-14_a_b", MatchDate: time.Date(2023, 10, 14, 0, 0, 0, 0, time.UTC), Target: 1},
		&ModelRow{MatchID: "2023-09-02_c_d", MatchDate: time.Date(2023, 9, 2, 0, 0, 0, 0, time.UTC), Target: -1},
	}
	require.NoError(t, BulkSave(rows))

	results, err := FindWhere(&ModelRow{}, "target IN (-1, 0, 1) ORDER BY match_date DESC")
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0].(*ModelRow)
	assert.Equal(t, "2023-10-14_a_b", first.MatchID)
}

func TestFindWhereMatchIDPatternEscapesUnderscores(t *testing.T) {
	testDatabase(t)

	rows := []Persistable{
		&ModelRow{MatchID: "2023-08-05_west_ham_arsenal", MatchDate: time.Date(2023, 8, 5, 0, 0, 0, 0, time.UTC)},
		&ModelRow{MatchID: "2023-08-05_westbham_arsenal", MatchDate: time.Date(2023, 8, 5, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, BulkSave(rows))

	results, err := FindWhere(&ModelRow{},
		`match_id LIKE ? ESCAPE '\' ORDER BY match_date DESC`,
		MatchIDPattern("west ham", "arsenal"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2023-08-05_west_ham_arsenal", results[0].(*ModelRow).MatchID)
}
