package puz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = []byte{'c', byte('a' + i)}
	}
	return out
}

func TestMinClueLength(t *testing.T) {
	// Lengths 3, 1, 1 across and 1, 1, 3 down.
	runs := findRuns([]byte("CAT..A..R"), 3, 3)
	require.Len(t, runs, 6)

	tests := []struct {
		numClues int
		want     int
		ok       bool
	}{
		{6, 1, true},
		{2, 2, true},
		{0, 0, false},
		{4, 0, false},
	}
	for _, tt := range tests {
		got, ok := minClueLength(runs, tt.numClues)
		assert.Equal(t, tt.ok, ok, "numClues=%d", tt.numClues)
		assert.Equal(t, tt.want, got, "numClues=%d", tt.numClues)
	}
}

func TestDeriveCluesNumbering(t *testing.T) {
	t.Run("two clues skip single cells", func(t *testing.T) {
		clues, across, down, err := deriveClues([]byte("CAT..A..R"), 3, 3, texts(2))
		require.NoError(t, err)
		require.Len(t, clues, 2)
		assert.Equal(t, Clue{Number: 1, Direction: DirectionAcross, Text: "ca", Start: 0, Length: 3}, clues[0])
		assert.Equal(t, Clue{Number: 2, Direction: DirectionDown, Text: "cb", Start: 2, Length: 3}, clues[1])
		assert.Equal(t, []int{0, 0, 0, -1, -1, -1, -1, -1, -1}, across)
		assert.Equal(t, []int{-1, -1, 1, -1, -1, 1, -1, -1, 1}, down)
	})

	t.Run("six clues include single cells", func(t *testing.T) {
		clues, _, _, err := deriveClues([]byte("CAT..A..R"), 3, 3, texts(6))
		require.NoError(t, err)
		var got []struct {
			n int
			d Direction
		}
		for _, c := range clues {
			got = append(got, struct {
				n int
				d Direction
			}{c.Number, c.Direction})
		}
		assert.Equal(t, []struct {
			n int
			d Direction
		}{
			{1, DirectionAcross}, {1, DirectionDown}, {2, DirectionDown},
			{3, DirectionDown}, {4, DirectionAcross}, {5, DirectionAcross},
		}, got)
	})

	t.Run("shared start has one number", func(t *testing.T) {
		clues, _, _, err := deriveClues([]byte("ABCD"), 2, 2, texts(4))
		require.NoError(t, err)
		require.Len(t, clues, 4)
		assert.Equal(t, 1, clues[0].Number)
		assert.True(t, clues[0].IsAcross())
		assert.Equal(t, 1, clues[1].Number)
		assert.False(t, clues[1].IsAcross())
		assert.Equal(t, 2, clues[2].Number)
		assert.Equal(t, 3, clues[3].Number)
		assert.Equal(t, 2, clues[3].Start)
	})

	t.Run("mismatch", func(t *testing.T) {
		_, _, _, err := deriveClues([]byte("CAT..A..R"), 3, 3, texts(3))
		assert.ErrorIs(t, err, ErrClueCountMismatch)
	})

	t.Run("all black", func(t *testing.T) {
		clues, _, _, err := deriveClues([]byte("...."), 2, 2, nil)
		require.NoError(t, err)
		assert.Empty(t, clues)
	})
}

func TestClueLookups(t *testing.T) {
	p := loadFixture(t, "3x3.puz")

	i, ok := p.AcrossClue(0, 1)
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = p.DownClue(1, 2)
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = p.AcrossClue(1, 2)
	assert.False(t, ok)
	_, ok = p.DownClue(0, 0)
	assert.False(t, ok)
	_, ok = p.AcrossClue(1, 0)
	assert.False(t, ok)
	_, ok = p.AcrossClue(5, 5)
	assert.False(t, ok)

	assert.Equal(t, []int{2, 5, 8}, p.ClueCells(1))
	assert.Equal(t, []int{0, 1, 2}, p.ClueCells(0))
	assert.Equal(t, "Tar-like goo", p.Clue(1).Text)
}

func TestClueStepping(t *testing.T) {
	p := loadFixture(t, "rebus.puz")
	require.Equal(t, 6, p.NumClues())

	assert.Equal(t, 1, p.NextClue(0))
	assert.Equal(t, 0, p.NextClue(5))
	assert.Equal(t, 5, p.PrevClue(0))
	assert.Equal(t, 3, p.PrevClue(4))

	empty, err := Build(Layout{Width: 1, Height: 1, Solution: "."})
	require.NoError(t, err)
	assert.Equal(t, -1, empty.NextClue(0))
	assert.Equal(t, -1, empty.PrevClue(0))
}

func TestCluesReturnsCopy(t *testing.T) {
	p := loadFixture(t, "3x3.puz")
	clues := p.Clues()
	clues[0].Text = "changed"
	assert.Equal(t, "Feline", p.Clue(0).Text)
}
