package app

import (
	"strconv"
	"strings"
	"time"

	"puzdesk/internal/puz"
)

type CellView struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Black    bool   `json:"black"`
	Number   int    `json:"number,omitempty"`
	Contents string `json:"contents"`
	Circled  bool   `json:"circled,omitempty"`
	// Across and Down are clue indexes, -1 when no clue covers the cell.
	Across int `json:"across"`
	Down   int `json:"down"`
}

type ClueView struct {
	Index      int    `json:"index"`
	Number     int    `json:"number"`
	Direction  string `json:"direction"`
	Label      string `json:"label"`
	Text       string `json:"text"`
	Cells      []int  `json:"cells"`
	References []int  `json:"references,omitempty"`
}

type TimerView struct {
	ElapsedSeconds int64 `json:"elapsedSeconds"`
	Running        bool  `json:"running"`
}

type PuzzleView struct {
	ID        string     `json:"id"`
	Filename  string     `json:"filename"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Copyright string     `json:"copyright,omitempty"`
	Note      string     `json:"note,omitempty"`
	Version   string     `json:"version"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Scramble  string     `json:"scramble"`
	Solved    bool       `json:"solved"`
	Empty     bool       `json:"empty"`
	Sections  []string   `json:"sections,omitempty"`
	Timer     TimerView  `json:"timer"`
	Cells     []CellView `json:"cells"`
	Clues     []ClueView `json:"clues"`
}

// CellUpdate is the result of changing one cell.
type CellUpdate struct {
	Cell   CellView `json:"cell"`
	Solved bool     `json:"solved"`
}

func buildPuzzleView(sess *Session, p *puz.Puzzle) *PuzzleView {
	v := &PuzzleView{
		ID:        sess.ID,
		Filename:  sess.Filename,
		Title:     p.TitleText(),
		Author:    p.AuthorText(),
		Copyright: p.CopyrightText(),
		Note:      p.NoteText(),
		Version:   strings.TrimRight(p.VersionString(), "\x00"),
		Width:     p.Width,
		Height:    p.Height,
		Scramble:  p.ScrambleState().String(),
		Solved:    p.IsSolved(),
		Empty:     p.IsEmpty(),
		Sections:  p.SectionNames(),
		Timer:     buildTimerView(p.TimerInfo()),
	}

	numbers := make(map[int]int)
	for i, c := range p.Clues() {
		numbers[c.Start] = c.Number
		v.Clues = append(v.Clues, buildClueView(p, i))
	}
	for row := 0; row < p.Height; row++ {
		for col := 0; col < p.Width; col++ {
			cell := buildCellView(p, row, col)
			cell.Number = numbers[p.Offset(row, col)]
			v.Cells = append(v.Cells, cell)
		}
	}
	return v
}

func buildCellView(p *puz.Puzzle, row, col int) CellView {
	cell := CellView{Row: row, Col: col, Across: -1, Down: -1}
	if p.IsBlack(row, col) {
		cell.Black = true
		return cell
	}
	cell.Contents = p.CellContents(row, col)
	cell.Circled = p.IsCircled(row, col)
	if i, ok := p.AcrossClue(row, col); ok {
		cell.Across = i
	}
	if i, ok := p.DownClue(row, col); ok {
		cell.Down = i
	}
	return cell
}

func buildClueView(p *puz.Puzzle, i int) ClueView {
	c := p.Clue(i)
	label := "D"
	if c.IsAcross() {
		label = "A"
	}
	return ClueView{
		Index:      i,
		Number:     c.Number,
		Direction:  string(c.Direction),
		Label:      strconv.Itoa(c.Number) + label,
		Text:       c.Text,
		Cells:      p.ClueCells(i),
		References: p.ReferencedClues(i),
	}
}

func buildTimerView(t puz.TimerInfo) TimerView {
	return TimerView{ElapsedSeconds: int64(t.Elapsed / time.Second), Running: t.Running}
}
