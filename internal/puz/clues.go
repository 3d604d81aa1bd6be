package puz

import "slices"

type Direction string

const (
	DirectionAcross Direction = "across"
	DirectionDown   Direction = "down"
)

// Clue is a clue text bound to the run of cells it was derived for.
type Clue struct {
	Number    int
	Direction Direction
	Text      string
	Start     int
	Length    int
}

func (c Clue) IsAcross() bool { return c.Direction == DirectionAcross }

// run is a maximal horizontal or vertical stretch of open cells.
type run struct {
	start  int
	length int
	across bool
}

// findRuns scans rows for across runs, then columns for down runs.
func findRuns(solution []byte, width, height int) []run {
	var runs []run
	scan := func(outer, inner int, across bool, offset func(o, i int) int) {
		for o := 0; o < outer; o++ {
			start, length := -1, 0
			for i := 0; i < inner; i++ {
				off := offset(o, i)
				if solution[off] == blackCell {
					if length > 0 {
						runs = append(runs, run{start: start, length: length, across: across})
					}
					start, length = -1, 0
					continue
				}
				if length == 0 {
					start = off
				}
				length++
			}
			if length > 0 {
				runs = append(runs, run{start: start, length: length, across: across})
			}
		}
	}
	scan(height, width, true, func(row, col int) int { return row*width + col })
	scan(width, height, false, func(col, row int) int { return row*width + col })
	return runs
}

// minClueLength picks the shortest run length, capped at 3, for which the
// number of runs at least that long equals the clue count.
func minClueLength(runs []run, numClues int) (int, bool) {
	var counts [4]int
	for _, r := range runs {
		counts[min(r.length, 3)]++
	}
	atLeast := len(runs)
	for m := 1; m <= 3; m++ {
		if atLeast == numClues {
			return m, true
		}
		atLeast -= counts[m]
	}
	return 0, false
}

// deriveClues numbers the runs in reading order and binds the clue texts to
// them in that order. An across and a down run starting on the same cell share
// a number, with across first. The returned maps give, per cell, the index of
// the covering across or down clue, or -1.
func deriveClues(solution []byte, width, height int, texts [][]byte) ([]Clue, []int, []int, error) {
	runs := findRuns(solution, width, height)
	minLength, ok := minClueLength(runs, len(texts))
	if !ok {
		e := &ClueCountError{Want: len(texts)}
		for _, r := range runs {
			if r.across {
				e.Across++
			} else {
				e.Down++
			}
		}
		return nil, nil, nil, e
	}

	runs = slices.DeleteFunc(runs, func(r run) bool { return r.length < minLength })
	slices.SortStableFunc(runs, func(a, b run) int { return a.start - b.start })

	size := width * height
	acrossMap := make([]int, size)
	downMap := make([]int, size)
	for i := range acrossMap {
		acrossMap[i] = -1
		downMap[i] = -1
	}

	clues := make([]Clue, 0, len(runs))
	number := 0
	for i, r := range runs {
		if i == 0 || r.start != runs[i-1].start {
			number++
		}
		c := Clue{
			Number:    number,
			Direction: DirectionDown,
			Text:      decodeText(texts[i]),
			Start:     r.start,
			Length:    r.length,
		}
		mapping, step := downMap, width
		if r.across {
			c.Direction = DirectionAcross
			mapping, step = acrossMap, 1
		}
		for k := 0; k < r.length; k++ {
			mapping[r.start+k*step] = i
		}
		clues = append(clues, c)
	}
	if len(clues) != len(texts) {
		return nil, nil, nil, &ClueCountError{Want: len(texts)}
	}
	for i, c := range clues {
		if c.Number <= 0 {
			return nil, nil, nil, &MissingClueNumberError{Index: i}
		}
	}
	return clues, acrossMap, downMap, nil
}

func (p *Puzzle) Clue(i int) Clue { return p.clues[i] }

// Clues returns the derived clues in file order, which is also solving order.
func (p *Puzzle) Clues() []Clue { return slices.Clone(p.clues) }

// AcrossClue returns the index of the across clue covering a cell.
func (p *Puzzle) AcrossClue(row, col int) (int, bool) {
	return lookupClue(p, p.acrossMap, row, col)
}

// DownClue returns the index of the down clue covering a cell.
func (p *Puzzle) DownClue(row, col int) (int, bool) {
	return lookupClue(p, p.downMap, row, col)
}

func lookupClue(p *Puzzle, mapping []int, row, col int) (int, bool) {
	off, err := p.offset(row, col)
	if err != nil || mapping[off] < 0 {
		return -1, false
	}
	return mapping[off], true
}

// ClueCells returns the grid offsets covered by clue i.
func (p *Puzzle) ClueCells(i int) []int {
	c := p.clues[i]
	step := p.Width
	if c.IsAcross() {
		step = 1
	}
	cells := make([]int, c.Length)
	for k := range cells {
		cells[k] = c.Start + k*step
	}
	return cells
}

// NextClue and PrevClue step through the clues in order, wrapping around at
// either end. They return -1 for a puzzle without clues.
func (p *Puzzle) NextClue(i int) int { return p.stepClue(i, 1) }

func (p *Puzzle) PrevClue(i int) int { return p.stepClue(i, -1) }

func (p *Puzzle) stepClue(i, delta int) int {
	n := len(p.clues)
	if n == 0 {
		return -1
	}
	return ((i+delta)%n + n) % n
}
