package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"puzdesk/internal/puz"

	"github.com/spf13/cobra"
)

var (
	raw       bool
	listClues bool
)

var mainCommand = &cobra.Command{
	Use:          "puzcheck FILE...",
	Short:        "Decode and verify Across Lite puzzle files",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			if err := checkFile(cmd.OutOrStdout(), path); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	mainCommand.Flags().BoolVar(&raw, "raw", false, "verify but report checksum mismatches instead of failing")
	mainCommand.Flags().BoolVar(&listClues, "clues", false, "list every clue")
}

func main() {
	if err := mainCommand.Execute(); err != nil {
		os.Exit(1)
	}
}

func checkFile(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	p, err := puz.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}

	checksums := "ok"
	if err := p.Verify(); err != nil {
		if !raw {
			return err
		}
		var ce *puz.ChecksumError
		if !errors.As(err, &ce) {
			return err
		}
		checksums = err.Error()
	}

	timer := p.TimerInfo()
	state := "paused"
	if timer.Running {
		state = "running"
	}

	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  title:     %s\n", p.TitleText())
	fmt.Fprintf(w, "  author:    %s\n", p.AuthorText())
	if c := p.CopyrightText(); c != "" {
		fmt.Fprintf(w, "  copyright: %s\n", c)
	}
	fmt.Fprintf(w, "  version:   %s\n", strings.TrimRight(p.VersionString(), "\x00"))
	fmt.Fprintf(w, "  size:      %dx%d, %d clues\n", p.Width, p.Height, p.NumClues())
	fmt.Fprintf(w, "  scramble:  %s\n", p.ScrambleState())
	if names := p.SectionNames(); len(names) > 0 {
		fmt.Fprintf(w, "  sections:  %s\n", strings.Join(names, " "))
	}
	if n := p.RebusCount(); n > 0 {
		fmt.Fprintf(w, "  rebus:     %d cells\n", n)
	}
	fmt.Fprintf(w, "  timer:     %s %s\n", timer.Elapsed, state)
	fmt.Fprintf(w, "  solved:    %t\n", p.IsSolved())
	fmt.Fprintf(w, "  checksums: %s\n", checksums)

	if listClues {
		for i, c := range p.Clues() {
			label := "D"
			if c.IsAcross() {
				label = "A"
			}
			fmt.Fprintf(w, "  %3d%s  %s\n", c.Number, label, c.Text)
			for _, j := range p.ReferencedClues(i) {
				ref := p.Clue(j)
				fmt.Fprintf(w, "        see %d %s\n", ref.Number, ref.Direction)
			}
		}
	}
	return nil
}
