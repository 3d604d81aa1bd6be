package main

import (
	"fmt"
	"os"

	"puzdesk/internal/puz"
)

func main() {
	path := "internal/puz/testdata/sample.puz"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	p, err := puz.Build(puz.Sample())
	if err != nil {
		panic(err)
	}
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	if err := p.Encode(f); err != nil {
		panic(err)
	}
	fmt.Printf("wrote %s (%dx%d, %d clues)\n", path, p.Width, p.Height, p.NumClues())
}
