package puz

import (
	"regexp"
	"strconv"
)

var clueReferencePattern = regexp.MustCompile(`\b(\d+)[ -](Across|across|Down|down)\b`)

// findClueReferences marks refs[i][j] when the text of clue i mentions clue j
// as "17-Across", "4 down" and the like. Only the last mention in a clue is
// considered, and a clue never references itself.
func findClueReferences(clues []Clue) [][]bool {
	refs := make([][]bool, len(clues))
	for i := range refs {
		refs[i] = make([]bool, len(clues))
	}
	for i, clue := range clues {
		matches := clueReferencePattern.FindAllStringSubmatch(clue.Text, -1)
		if len(matches) == 0 {
			continue
		}
		m := matches[len(matches)-1]
		number, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		direction := DirectionDown
		if m[2] == "Across" || m[2] == "across" {
			direction = DirectionAcross
		}
		for j, other := range clues {
			if j != i && other.Number == number && other.Direction == direction {
				refs[i][j] = true
			}
		}
	}
	return refs
}

// ClueReferences returns the matrix built by findClueReferences: entry [i][j]
// is true when clue i refers to clue j.
func (p *Puzzle) ClueReferences() [][]bool {
	out := make([][]bool, len(p.references))
	for i, row := range p.references {
		out[i] = append([]bool(nil), row...)
	}
	return out
}

// ReferencedClues lists the indexes of the clues that clue i refers to.
func (p *Puzzle) ReferencedClues(i int) []int {
	var out []int
	for j, ok := range p.references[i] {
		if ok {
			out = append(out, j)
		}
	}
	return out
}
