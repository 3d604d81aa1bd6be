package app

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"puzdesk/internal/puz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPuzzleView(t *testing.T) {
	svc, _, _ := SetupTestService(t)
	ctx := context.Background()
	row := importFixture(t, svc, "3x3.puz")

	v, err := svc.PuzzleView(ctx, row.ID)
	require.NoError(t, err)

	assert.Equal(t, "3x3", v.Title)
	assert.Equal(t, "1.2", v.Version)
	assert.Equal(t, "unscrambled", v.Scramble)
	assert.True(t, v.Empty)
	assert.False(t, v.Solved)
	assert.Equal(t, TimerView{ElapsedSeconds: 0, Running: true}, v.Timer)
	require.Len(t, v.Cells, 9)
	assert.Equal(t, CellView{Row: 0, Col: 0, Number: 1, Across: 0, Down: -1}, v.Cells[0])
	assert.Equal(t, CellView{Row: 0, Col: 2, Number: 2, Across: 0, Down: 1}, v.Cells[2])
	assert.Equal(t, CellView{Row: 1, Col: 0, Black: true, Across: -1, Down: -1}, v.Cells[3])

	require.Len(t, v.Clues, 2)
	assert.Equal(t, "1A", v.Clues[0].Label)
	assert.Equal(t, "Feline", v.Clues[0].Text)
	assert.Equal(t, "2D", v.Clues[1].Label)
	assert.Equal(t, []int{2, 5, 8}, v.Clues[1].Cells)

	_, err = svc.PuzzleView(ctx, "missing")
	assert.ErrorIs(t, err, ErrPuzzleNotFound)
}

func TestSetCell(t *testing.T) {
	svc, queries, _ := SetupTestService(t)
	ctx := context.Background()
	row := importFixture(t, svc, "3x3.puz")

	update, err := svc.SetCell(ctx, row.ID, 0, 0, "c")
	require.NoError(t, err)
	assert.Equal(t, "C", update.Cell.Contents)
	assert.False(t, update.Solved)

	stored, err := queries.GetPuzzle(ctx, row.ID)
	require.NoError(t, err)
	p, err := puz.DecodeVerified(bytes.NewReader(stored.Data))
	require.NoError(t, err)
	assert.Equal(t, "C", p.CellContents(0, 0))

	for _, c := range []struct {
		row, col int
		v        string
	}{
		{0, 1, "A"}, {0, 2, "T"}, {1, 2, "A"}, {2, 2, "R"},
	} {
		update, err = svc.SetCell(ctx, row.ID, c.row, c.col, c.v)
		require.NoError(t, err)
	}
	assert.True(t, update.Solved)

	_, err = svc.SetCell(ctx, row.ID, 1, 0, "X")
	assert.ErrorIs(t, err, puz.ErrBlackCell)
	_, err = svc.SetCell(ctx, row.ID, 9, 9, "X")
	assert.ErrorIs(t, err, puz.ErrOutOfBounds)
	_, err = svc.SetCell(ctx, "missing", 0, 0, "X")
	assert.ErrorIs(t, err, ErrPuzzleNotFound)
}

func TestSetCellRebus(t *testing.T) {
	svc, _, _ := SetupTestService(t)
	ctx := context.Background()
	row := importFixture(t, svc, "rebus.puz")

	update, err := svc.SetCell(ctx, row.ID, 1, 1, "re")
	require.NoError(t, err)
	assert.Equal(t, "re", update.Cell.Contents)
	assert.True(t, update.Cell.Circled)

	_, data, err := svc.ExportPuzzle(ctx, row.ID)
	require.NoError(t, err)
	p, err := puz.DecodeVerified(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "re", p.CellContents(1, 1))
	assert.Equal(t, "STOCK", p.CellContents(0, 0))
}

func TestSetCellRebusAddsUserRebusSection(t *testing.T) {
	svc, _, _ := SetupTestService(t)
	ctx := context.Background()
	row := importFixture(t, svc, "3x3.puz")

	view, err := svc.PuzzleView(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{puz.SectionTimer}, view.Sections)

	_, err = svc.SetCell(ctx, row.ID, 0, 0, "CAT")
	require.NoError(t, err)

	view, err = svc.PuzzleView(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{puz.SectionUserRebus, puz.SectionTimer}, view.Sections)
}

func TestConcurrentSetCell(t *testing.T) {
	svc, _, _ := SetupTestService(t)
	ctx := context.Background()
	row := importFixture(t, svc, "rebus.puz")

	var wg sync.WaitGroup
	for col := 0; col < 3; col++ {
		for r := 0; r < 3; r++ {
			wg.Add(1)
			go func(r, col int) {
				defer wg.Done()
				_, err := svc.SetCell(ctx, row.ID, r, col, "X")
				assert.NoError(t, err)
			}(r, col)
		}
	}
	wg.Wait()

	_, data, err := svc.ExportPuzzle(ctx, row.ID)
	require.NoError(t, err)
	p, err := puz.DecodeVerified(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "XXXXXXXXX", string(p.UserGrid))
}

func TestSetTimerAndExport(t *testing.T) {
	svc, _, _ := SetupTestService(t)
	ctx := context.Background()
	row := importFixture(t, svc, "3x3.puz")

	timer, err := svc.SetTimer(ctx, row.ID, 75*time.Second+300*time.Millisecond, false)
	require.NoError(t, err)
	assert.Equal(t, TimerView{ElapsedSeconds: 75, Running: false}, *timer)

	filename, data, err := svc.ExportPuzzle(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, "3x3.puz", filename)
	p, err := puz.DecodeVerified(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, puz.TimerInfo{Elapsed: 75 * time.Second}, p.TimerInfo())
}

func TestClueNavigation(t *testing.T) {
	svc, _, _ := SetupTestService(t)
	ctx := context.Background()
	row := importFixture(t, svc, "rebus.puz")

	c, err := svc.Clue(ctx, row.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, "4A", c.Label)
	assert.Equal(t, []int{0}, c.References)

	c, err = svc.StepClue(ctx, row.ID, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Index)

	c, err = svc.StepClue(ctx, row.ID, 0, -2)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Index)

	_, err = svc.Clue(ctx, row.ID, 6)
	assert.ErrorIs(t, err, ErrClueNotFound)
}

func TestDeletePuzzle(t *testing.T) {
	svc, _, _ := SetupTestService(t)
	ctx := context.Background()
	row := importFixture(t, svc, "3x3.puz")

	_, err := svc.PuzzleView(ctx, row.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeletePuzzle(ctx, row.ID))

	_, err = svc.PuzzleView(ctx, row.ID)
	assert.ErrorIs(t, err, ErrPuzzleNotFound)

	// The same file can be imported again once the original is gone.
	importFixture(t, svc, "3x3.puz")
}
