package puz

import (
	"bytes"
	"fmt"
	"unicode"
	"unicode/utf8"
)

type ScrambleState int

const (
	Unscrambled ScrambleState = iota
	Locked
	Scrambled
	ScrambleUnknown
)

func (s ScrambleState) String() string {
	switch s {
	case Unscrambled:
		return "unscrambled"
	case Locked:
		return "locked"
	case Scrambled:
		return "scrambled"
	default:
		return "unknown"
	}
}

func (p *Puzzle) ScrambleState() ScrambleState {
	switch p.ScrambledTag {
	case 0x0:
		return Unscrambled
	case 0x2:
		return Locked
	case 0x4:
		return Scrambled
	default:
		return ScrambleUnknown
	}
}

// buildRebusSolution expands each cell to its full answer. A GRBS byte of n
// selects RTBL entry n-1.
func (p *Puzzle) buildRebusSolution() error {
	size := p.size()
	solution := make([]string, size)
	for i, b := range p.SolutionGrid {
		solution[i] = decodeText([]byte{b})
	}

	grbs := p.Section(SectionRebusGrid)
	if grbs != nil && len(grbs.Data) != size {
		return &RebusSizeError{Want: size, Got: len(grbs.Data)}
	}
	rtbl := p.Section(SectionRebusTable)
	if grbs != nil && rtbl != nil {
		table := parseRebusTable(rtbl.Data)
		for off, v := range grbs.Data {
			if v == 0 {
				continue
			}
			answer, ok := table[int(v)-1]
			if !ok {
				return &MissingRebusEntryError{Offset: off, Key: int(v) - 1}
			}
			solution[off] = answer
		}
	}
	p.rebusSolution = solution
	return nil
}

func (p *Puzzle) IsBlack(row, col int) bool {
	return p.SolutionGrid[p.Offset(row, col)] == blackCell
}

// Solution returns the full answer for a cell, including rebus entries.
func (p *Puzzle) Solution(row, col int) string {
	return p.rebusSolution[p.Offset(row, col)]
}

// CellContents returns the user's entry for a cell: the rebus entry if one
// is set, otherwise the single letter, or "" for an empty cell.
func (p *Puzzle) CellContents(row, col int) string {
	off := p.Offset(row, col)
	if entry, ok := p.userRebus[off]; ok {
		return decodeText(entry)
	}
	b := p.UserGrid[off]
	if b == emptyCell {
		return ""
	}
	return decodeText([]byte{b})
}

// SetCellContents stores a user entry. Multi-letter values are kept as a rebus
// entry and their upper-cased first letter goes in the grid; shorter values
// clear any rebus entry.
func (p *Puzzle) SetCellContents(row, col int, value string) error {
	off, err := p.offset(row, col)
	if err != nil {
		return err
	}
	if p.SolutionGrid[off] == blackCell {
		return fmt.Errorf("%w: (%d,%d)", ErrBlackCell, row, col)
	}
	if value == "" {
		p.UserGrid[off] = emptyCell
		delete(p.userRebus, off)
		return nil
	}

	raw, err := encodeText(value)
	if err != nil {
		return fmt.Errorf("cell (%d,%d): %w", row, col, err)
	}
	first := raw[0]
	r, _ := utf8.DecodeRuneInString(value)
	if upper, err := encodeText(string(unicode.ToUpper(r))); err == nil && len(upper) == 1 {
		first = upper[0]
	}

	p.UserGrid[off] = first
	if len(raw) > 1 {
		p.userRebus[off] = raw
	} else {
		delete(p.userRebus, off)
	}
	return nil
}

// IsCorrect compares a cell against its answer. Either the whole rebus answer
// or just its first letter counts. Cells of a scrambled or locked puzzle are
// always reported correct since the real answer is not available.
func (p *Puzzle) IsCorrect(row, col int) bool {
	if p.ScrambleState() != Unscrambled {
		return true
	}
	got := p.CellContents(row, col)
	want := p.Solution(row, col)
	if got == want {
		return true
	}
	r, size := utf8.DecodeRuneInString(want)
	return r != utf8.RuneError && size < len(want) && got == want[:size]
}

// IsSolved reports whether the whole grid is filled in correctly. Scrambled
// puzzles are checked against the stored scrambled checksum.
func (p *Puzzle) IsSolved() bool {
	switch p.ScrambleState() {
	case Unscrambled:
		return bytes.Equal(p.SolutionGrid, p.UserGrid)
	case Scrambled:
		return p.computeScrambledChecksum() == p.ScrambledChecksum
	default:
		return false
	}
}

// computeScrambledChecksum folds the user's letters column by column,
// skipping black cells.
func (p *Puzzle) computeScrambledChecksum() uint16 {
	var cksum uint16
	for col := 0; col < p.Width; col++ {
		for row := 0; row < p.Height; row++ {
			b := p.UserGrid[row*p.Width+col]
			if b == blackCell {
				continue
			}
			cksum = ChecksumByte(b, cksum)
		}
	}
	return cksum
}

// IsEmpty reports whether the user has not entered anything yet.
func (p *Puzzle) IsEmpty() bool {
	for _, b := range p.UserGrid {
		if b != blackCell && b != emptyCell {
			return false
		}
	}
	return true
}

// RebusCount is the number of cells with a rebus answer.
func (p *Puzzle) RebusCount() int {
	grbs := p.Section(SectionRebusGrid)
	if grbs == nil {
		return 0
	}
	n := 0
	for _, v := range grbs.Data {
		if v != 0 {
			n++
		}
	}
	return n
}

// RebusTable returns the parsed RTBL entries keyed by their index.
func (p *Puzzle) RebusTable() map[int]string {
	rtbl := p.Section(SectionRebusTable)
	if rtbl == nil {
		return map[int]string{}
	}
	return parseRebusTable(rtbl.Data)
}

// GextMask returns the GEXT flags for a cell, or GextNone without a GEXT
// section.
func (p *Puzzle) GextMask(row, col int) byte {
	gext := p.Section(SectionExtras)
	off := p.Offset(row, col)
	if gext == nil || off >= len(gext.Data) {
		return GextNone
	}
	return gext.Data[off]
}

func (p *Puzzle) IsCircled(row, col int) bool {
	return p.GextMask(row, col)&GextCircled != 0
}
