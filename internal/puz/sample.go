package puz

// Sample describes a small valid puzzle with circled cells, used to seed new
// installations and to regenerate testdata/sample.puz.
func Sample() Layout {
	const solution = "" +
		"CAMEL" +
		"A.A.A" +
		"RENTS" +
		"O.G.S" +
		"BRAVO"

	circles := make([]byte, len(solution))
	for _, off := range []int{0, 12, 24} {
		circles[off] = GextCircled
	}

	return Layout{
		Width:    5,
		Height:   5,
		Solution: solution,
		Clues: []string{
			"Desert ship",
			"Chocolate stand-in",
			"Japanese comics",
			"Rope for catching a 1-Across",
			"Leases",
			"Cheer for the diva",
		},
		Title:     "Sample 5x5",
		Author:    "puzdesk",
		Copyright: "Public domain",
		Note:      "Generated by gen_puz.",
		Sections:  []Section{{Name: SectionExtras, Data: circles}},
	}
}
