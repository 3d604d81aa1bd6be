// Package puz reads, verifies, mutates and writes Across Lite (.puz) crossword
// files.
//
// A decoded Puzzle keeps every byte-level field it was read from so that an
// unmodified puzzle writes back the same grids, strings and sections. Clue
// numbering is not stored in the file; it is derived from the black-cell layout
// when the puzzle is decoded and never recomputed afterwards.
//
// A Puzzle is not safe for concurrent use.
package puz

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

const Magic = "ACROSS&DOWN"

const (
	blackCell byte = '.'
	emptyCell byte = '-'
)

var maskedChecksumKey = [8]byte{'I', 'C', 'H', 'E', 'A', 'T', 'E', 'D'}

type Puzzle struct {
	FileChecksum      uint16
	HeaderChecksum    uint16
	MaskedChecksums   [8]byte
	Version           [4]byte
	ScrambledChecksum uint16
	Width             int
	Height            int
	UnknownBitmask    uint16
	ScrambledTag      uint16

	// SolutionGrid and UserGrid hold one byte per cell in row-major order.
	SolutionGrid []byte
	UserGrid     []byte

	Title     []byte
	Author    []byte
	Copyright []byte
	Note      []byte

	// Sections are kept in the order they appeared in the input.
	Sections []Section

	clueTexts     [][]byte
	clues         []Clue
	acrossMap     []int
	downMap       []int
	rebusSolution []string
	userRebus     map[int][]byte
	references    [][]bool
	timer         TimerInfo
	includeNote   bool
}

// Decode reads all of r and parses it without checking any checksum.
func Decode(r io.Reader) (*Puzzle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// DecodeVerified is Decode followed by Verify.
func DecodeVerified(r io.Reader) (*Puzzle, error) {
	p, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if err := p.Verify(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse decodes a complete puz file. Only structural problems are reported;
// a corrupted but well-formed file still loads so it can be inspected.
func Parse(data []byte) (*Puzzle, error) {
	r := newReader(data)
	p := &Puzzle{}

	var err error
	if p.FileChecksum, err = r.readUint16(); err != nil {
		return nil, fmt.Errorf("read file checksum: %w", err)
	}
	magic, err := r.readString()
	if err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if string(magic) != Magic {
		return nil, ErrBadMagic
	}
	if p.HeaderChecksum, err = r.readUint16(); err != nil {
		return nil, fmt.Errorf("read header checksum: %w", err)
	}
	masked, err := r.readBytes(8)
	if err != nil {
		return nil, fmt.Errorf("read masked checksums: %w", err)
	}
	copy(p.MaskedChecksums[:], masked)
	version, err := r.readBytes(4)
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	copy(p.Version[:], version)
	if p.includeNote, err = includeNoteInTextChecksum(p.Version); err != nil {
		return nil, err
	}
	if err := r.skip(2); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if p.ScrambledChecksum, err = r.readUint16(); err != nil {
		return nil, fmt.Errorf("read scrambled checksum: %w", err)
	}
	if err := r.skip(12); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	width, err := r.readByte()
	if err != nil {
		return nil, fmt.Errorf("read width: %w", err)
	}
	height, err := r.readByte()
	if err != nil {
		return nil, fmt.Errorf("read height: %w", err)
	}
	p.Width, p.Height = int(width), int(height)
	numClues, err := r.readUint16()
	if err != nil {
		return nil, fmt.Errorf("read clue count: %w", err)
	}
	if p.UnknownBitmask, err = r.readUint16(); err != nil {
		return nil, fmt.Errorf("read bitmask: %w", err)
	}
	if p.ScrambledTag, err = r.readUint16(); err != nil {
		return nil, fmt.Errorf("read scrambled tag: %w", err)
	}

	size := p.size()
	if p.SolutionGrid, err = r.readBytes(size); err != nil {
		return nil, fmt.Errorf("read solution grid: %w", err)
	}
	if p.UserGrid, err = r.readBytes(size); err != nil {
		return nil, fmt.Errorf("read user grid: %w", err)
	}

	if p.Title, err = r.readString(); err != nil {
		return nil, fmt.Errorf("read title: %w", err)
	}
	if p.Author, err = r.readString(); err != nil {
		return nil, fmt.Errorf("read author: %w", err)
	}
	if p.Copyright, err = r.readString(); err != nil {
		return nil, fmt.Errorf("read copyright: %w", err)
	}
	p.clueTexts = make([][]byte, numClues)
	for i := range p.clueTexts {
		if p.clueTexts[i], err = r.readString(); err != nil {
			return nil, fmt.Errorf("read clue %d: %w", i, err)
		}
	}
	if p.Note, err = r.readString(); err != nil {
		return nil, fmt.Errorf("read note: %w", err)
	}

	for {
		section, err := readSection(r)
		if err != nil {
			return nil, err
		}
		if section == nil {
			break
		}
		p.Sections = append(p.Sections, *section)
	}

	if err := p.derive(); err != nil {
		return nil, err
	}
	return p, nil
}

// derive fills in everything that is computed rather than stored: section
// payloads, per-cell rebus solutions, clue numbering and cross references.
func (p *Puzzle) derive() error {
	p.timer = TimerInfo{Running: true}
	p.userRebus = make(map[int][]byte)
	if s := p.Section(SectionUserRebus); s != nil {
		entries, err := parseUserRebus(s.Data, p.size())
		if err != nil {
			return err
		}
		p.userRebus = entries
	}
	if s := p.Section(SectionTimer); s != nil {
		timer, err := parseTimer(s.Data)
		if err != nil {
			return err
		}
		p.timer = timer
	}

	if err := p.buildRebusSolution(); err != nil {
		return err
	}

	clues, across, down, err := deriveClues(p.SolutionGrid, p.Width, p.Height, p.clueTexts)
	if err != nil {
		return err
	}
	p.clues, p.acrossMap, p.downMap = clues, across, down
	p.references = findClueReferences(p.clues)
	return nil
}

// includeNoteInTextChecksum reports whether the version is 1.3 or later. The
// minor part may carry a suffix, as in "1.2c", or be missing, as in "2.".
func includeNoteInTextChecksum(version [4]byte) (bool, error) {
	s := string(version[:])
	bad := &VersionError{Version: strings.TrimRight(s, "\x00")}
	majorPart, minorPart, ok := strings.Cut(s, ".")
	if !ok {
		return false, bad
	}
	major, err := strconv.Atoi(majorPart)
	if err != nil {
		return false, bad
	}
	digits := minorPart
	if i := strings.IndexFunc(minorPart, func(r rune) bool { return !unicode.IsDigit(r) }); i >= 0 {
		digits = minorPart[:i]
	}
	minor := 0
	if digits != "" {
		if minor, err = strconv.Atoi(digits); err != nil {
			return false, bad
		}
	}
	return major > 1 || (major == 1 && minor >= 3), nil
}

// Verify recomputes every checksum and returns the first mismatch, checked in
// the order header, masked bytes 0-7, file, then each section.
func (p *Puzzle) Verify() error {
	if computed := p.ComputeHeaderChecksum(); computed != p.HeaderChecksum {
		return &ChecksumError{Kind: ErrBadHeaderChecksum, Expected: p.HeaderChecksum, Computed: computed}
	}
	computedMasked := p.ComputeMaskedChecksums()
	for i := range p.MaskedChecksums {
		if p.MaskedChecksums[i] != computedMasked[i] {
			return &ChecksumError{
				Kind:     ErrBadMaskedChecksum,
				Index:    i,
				Expected: uint16(p.MaskedChecksums[i]),
				Computed: uint16(computedMasked[i]),
			}
		}
	}
	if computed := p.ComputeFileChecksum(); computed != p.FileChecksum {
		return &ChecksumError{Kind: ErrBadFileChecksum, Expected: p.FileChecksum, Computed: computed}
	}
	for _, s := range p.Sections {
		if computed := ChecksumRegion(s.Data, 0); computed != s.Checksum {
			return &ChecksumError{Kind: ErrBadSectionChecksum, Section: s.Name, Expected: s.Checksum, Computed: computed}
		}
	}
	for i, c := range p.clues {
		if c.Number <= 0 {
			return &MissingClueNumberError{Index: i}
		}
	}
	return nil
}

func (p *Puzzle) ComputeHeaderChecksum() uint16 {
	cksum := ChecksumByte(byte(p.Width), 0)
	cksum = ChecksumByte(byte(p.Height), cksum)
	cksum = ChecksumShort(uint16(len(p.clueTexts)), cksum)
	cksum = ChecksumShort(p.UnknownBitmask, cksum)
	return ChecksumShort(p.ScrambledTag, cksum)
}

// textChecksum folds title, author, copyright and note with their terminators
// (when non-empty) but the clues without theirs.
func (p *Puzzle) textChecksum(cksum uint16) uint16 {
	for _, s := range [][]byte{p.Title, p.Author, p.Copyright} {
		if len(s) > 0 {
			cksum = ChecksumRegion(s, cksum)
			cksum = ChecksumByte(0, cksum)
		}
	}
	for _, text := range p.clueTexts {
		cksum = ChecksumRegion(text, cksum)
	}
	if p.includeNote && len(p.Note) > 0 {
		cksum = ChecksumRegion(p.Note, cksum)
		cksum = ChecksumByte(0, cksum)
	}
	return cksum
}

func (p *Puzzle) ComputeFileChecksum() uint16 {
	cksum := p.ComputeHeaderChecksum()
	cksum = ChecksumRegion(p.SolutionGrid, cksum)
	cksum = ChecksumRegion(p.UserGrid, cksum)
	return p.textChecksum(cksum)
}

func (p *Puzzle) ComputeMaskedChecksums() [8]byte {
	sums := [4]uint16{
		p.ComputeHeaderChecksum(),
		ChecksumRegion(p.SolutionGrid, 0),
		ChecksumRegion(p.UserGrid, 0),
		p.textChecksum(0),
	}
	var out [8]byte
	for i, sum := range sums {
		out[i] = maskedChecksumKey[i] ^ byte(sum)
		out[i+4] = maskedChecksumKey[i+4] ^ byte(sum>>8)
	}
	return out
}

func (p *Puzzle) refreshChecksums() {
	p.HeaderChecksum = p.ComputeHeaderChecksum()
	p.MaskedChecksums = p.ComputeMaskedChecksums()
	p.FileChecksum = p.ComputeFileChecksum()
}

// Encode writes the puzzle to w. Checksums are recomputed first and the stored
// checksum fields and Sections are updated to match what was written. Header
// padding is written as zeros. Nothing is written when a section payload does
// not fit its 16-bit length field.
func (p *Puzzle) Encode(w io.Writer) error {
	p.refreshChecksums()

	out := &writer{}
	out.writeUint16(p.FileChecksum)
	out.writeString([]byte(Magic))
	out.writeUint16(p.HeaderChecksum)
	out.writeBytes(p.MaskedChecksums[:])
	out.writeBytes(p.Version[:])
	out.writeZeros(2)
	out.writeUint16(p.ScrambledChecksum)
	out.writeZeros(12)
	out.writeByte(byte(p.Width))
	out.writeByte(byte(p.Height))
	out.writeUint16(uint16(len(p.clueTexts)))
	out.writeUint16(p.UnknownBitmask)
	out.writeUint16(p.ScrambledTag)
	out.writeBytes(p.SolutionGrid)
	out.writeBytes(p.UserGrid)
	out.writeString(p.Title)
	out.writeString(p.Author)
	out.writeString(p.Copyright)
	for _, text := range p.clueTexts {
		out.writeString(text)
	}
	out.writeString(p.Note)
	sections, err := p.writeSections(out)
	if err != nil {
		return err
	}
	p.Sections = sections

	_, err = w.Write(out.bytes())
	return err
}

// writeSections emits GRBS, RTBL, RUSR and GEXT, then any sections this
// package does not interpret in their original order, then LTIM last. RUSR
// and LTIM are rebuilt from the live document.
func (p *Puzzle) writeSections(out *writer) ([]Section, error) {
	var written []Section
	emit := func(name string, data []byte) error {
		s, err := writeSection(out, name, data)
		if err != nil {
			return err
		}
		written = append(written, s)
		return nil
	}

	for _, name := range []string{SectionRebusGrid, SectionRebusTable} {
		if s := p.Section(name); s != nil {
			if err := emit(name, s.Data); err != nil {
				return nil, err
			}
		}
	}
	if data, ok := encodeUserRebus(p.userRebus, p.size()); ok {
		if err := emit(SectionUserRebus, data); err != nil {
			return nil, err
		}
	}
	if s := p.Section(SectionExtras); s != nil {
		if err := emit(SectionExtras, s.Data); err != nil {
			return nil, err
		}
	}
	for _, s := range p.Sections {
		if !knownSection(s.Name) {
			if err := emit(s.Name, s.Data); err != nil {
				return nil, err
			}
		}
	}
	if err := emit(SectionTimer, encodeTimer(p.timer)); err != nil {
		return nil, err
	}
	return written, nil
}

func knownSection(name string) bool {
	switch name {
	case SectionRebusGrid, SectionRebusTable, SectionUserRebus, SectionTimer, SectionExtras:
		return true
	}
	return false
}

// MarshalBinary returns the encoded puzzle. Like Encode it refreshes the
// stored checksums.
func (p *Puzzle) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Layout describes a new, unscrambled puzzle for Build.
type Layout struct {
	Width    int
	Height   int
	Solution string // row-major, '.' marks a black cell
	Clues    []string

	Title     string
	Author    string
	Copyright string
	Note      string

	// Sections are appended as given; their stored checksums are computed.
	Sections []Section
}

// Build creates a puzzle with an empty user grid, version 1.3 and valid
// checksums.
func Build(l Layout) (*Puzzle, error) {
	if l.Width < 1 || l.Height < 1 || l.Width > 255 || l.Height > 255 {
		return nil, fmt.Errorf("puz: grid must be between 1x1 and 255x255, got %dx%d", l.Width, l.Height)
	}
	solution, err := encodeText(l.Solution)
	if err != nil {
		return nil, fmt.Errorf("encode solution: %w", err)
	}
	if len(solution) != l.Width*l.Height {
		return nil, fmt.Errorf("puz: solution has %d cells, want %d", len(solution), l.Width*l.Height)
	}

	p := &Puzzle{
		Version:      [4]byte{'1', '.', '3', 0},
		Width:        l.Width,
		Height:       l.Height,
		SolutionGrid: solution,
		UserGrid:     make([]byte, len(solution)),
		includeNote:  true,
	}
	for i, b := range solution {
		if b == blackCell {
			p.UserGrid[i] = blackCell
		} else {
			p.UserGrid[i] = emptyCell
		}
	}
	for _, f := range []struct {
		dst  *[]byte
		text string
	}{
		{&p.Title, l.Title},
		{&p.Author, l.Author},
		{&p.Copyright, l.Copyright},
		{&p.Note, l.Note},
	} {
		if *f.dst, err = encodeText(f.text); err != nil {
			return nil, fmt.Errorf("encode %q: %w", f.text, err)
		}
	}
	p.clueTexts = make([][]byte, len(l.Clues))
	for i, text := range l.Clues {
		if p.clueTexts[i], err = encodeText(text); err != nil {
			return nil, fmt.Errorf("encode clue %d: %w", i, err)
		}
	}
	for _, s := range l.Sections {
		p.Sections = append(p.Sections, Section{
			Name:     s.Name,
			Length:   uint16(len(s.Data)),
			Checksum: ChecksumRegion(s.Data, 0),
			Data:     s.Data,
		})
	}

	if err := p.derive(); err != nil {
		return nil, err
	}
	p.refreshChecksums()
	return p, nil
}

func (p *Puzzle) size() int {
	return p.Width * p.Height
}

func (p *Puzzle) offset(row, col int) (int, error) {
	if row < 0 || row >= p.Height || col < 0 || col >= p.Width {
		return 0, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, row, col)
	}
	return row*p.Width + col, nil
}

// Offset returns the row-major index of a cell. It panics on coordinates
// outside the grid.
func (p *Puzzle) Offset(row, col int) int {
	off, err := p.offset(row, col)
	if err != nil {
		panic(err)
	}
	return off
}

func (p *Puzzle) NumClues() int { return len(p.clueTexts) }

func (p *Puzzle) TitleText() string     { return decodeText(p.Title) }
func (p *Puzzle) AuthorText() string    { return decodeText(p.Author) }
func (p *Puzzle) CopyrightText() string { return decodeText(p.Copyright) }
func (p *Puzzle) NoteText() string      { return decodeText(p.Note) }

// VersionString returns the raw four version bytes, e.g. "1.3\x00".
func (p *Puzzle) VersionString() string { return string(p.Version[:]) }

func (p *Puzzle) TimerInfo() TimerInfo { return p.timer }

func (p *Puzzle) SetTimerInfo(t TimerInfo) {
	if t.Elapsed < 0 {
		t.Elapsed = 0
	}
	p.timer = TimerInfo{Elapsed: t.Elapsed.Truncate(time.Second), Running: t.Running}
}

// Section returns the first section with the given name, or nil.
func (p *Puzzle) Section(name string) *Section {
	for i := range p.Sections {
		if p.Sections[i].Name == name {
			return &p.Sections[i]
		}
	}
	return nil
}

// SectionNames lists the distinct section names in the order they were read.
func (p *Puzzle) SectionNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range p.Sections {
		if !seen[s.Name] {
			seen[s.Name] = true
			names = append(names, s.Name)
		}
	}
	return names
}

// SectionText returns a section's payload as text, or "" if it is absent.
func (p *Puzzle) SectionText(name string) string {
	if s := p.Section(name); s != nil {
		return decodeText(s.Data)
	}
	return ""
}

// SameAs reports whether other is a copy of the same puzzle, possibly with a
// different fill.
func (p *Puzzle) SameAs(other *Puzzle) bool {
	return p.HeaderChecksum == other.HeaderChecksum &&
		bytes.Equal(p.Title, other.Title) &&
		bytes.Equal(p.Author, other.Author)
}

func decodeText(b []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

func encodeText(s string) ([]byte, error) {
	return charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
}
