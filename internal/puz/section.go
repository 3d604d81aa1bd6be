package puz

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	SectionRebusGrid  = "GRBS"
	SectionRebusTable = "RTBL"
	SectionUserRebus  = "RUSR"
	SectionTimer      = "LTIM"
	SectionExtras     = "GEXT"
)

const (
	GextNone    byte = 0x00
	GextCircled byte = 0x80
)

// Section is one named extension block that follows the note. Length and
// Checksum are the values stored in the file, not recomputed ones.
type Section struct {
	Name     string
	Length   uint16
	Checksum uint16
	Data     []byte
}

// readSection returns nil when fewer than four bytes are left for a name,
// which is how the section list ends.
func readSection(r *reader) (*Section, error) {
	if r.remaining() < 4 {
		return nil, nil
	}
	name, err := r.readBytes(4)
	if err != nil {
		return nil, err
	}
	length, err := r.readUint16()
	if err != nil {
		return nil, fmt.Errorf("section %s length: %w", name, err)
	}
	checksum, err := r.readUint16()
	if err != nil {
		return nil, fmt.Errorf("section %s checksum: %w", name, err)
	}
	data, err := r.readBytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("section %s data: %w", name, err)
	}
	if _, err := r.readByte(); err != nil {
		return nil, fmt.Errorf("section %s terminator: %w", name, err)
	}
	return &Section{
		Name:     string(name),
		Length:   length,
		Checksum: checksum,
		Data:     data,
	}, nil
}

// writeSection frames data and returns the section as written.
func writeSection(w *writer, name string, data []byte) (Section, error) {
	if len(data) > math.MaxUint16 {
		return Section{}, fmt.Errorf("%w: %s has %d bytes", ErrSectionTooLarge, name, len(data))
	}
	s := Section{
		Name:     name,
		Length:   uint16(len(data)),
		Checksum: ChecksumRegion(data, 0),
		Data:     data,
	}
	w.writeBytes([]byte(name))
	w.writeUint16(s.Length)
	w.writeUint16(s.Checksum)
	w.writeBytes(data)
	w.writeByte(0)
	return s, nil
}

// parseRebusTable reads RTBL text of the form " 0:STOCK; 1:BLACK;". Entries
// without a numeric key are skipped.
func parseRebusTable(data []byte) map[int]string {
	table := make(map[int]string)
	for _, entry := range bytes.Split(data, []byte{';'}) {
		key, value, ok := bytes.Cut(entry, []byte{':'})
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(string(key)))
		if err != nil {
			continue
		}
		table[n] = decodeText(value)
	}
	return table
}

// parseUserRebus reads one zero-terminated entry per cell. Empty entries are
// left out of the returned map.
func parseUserRebus(data []byte, size int) (map[int][]byte, error) {
	r := newReader(data)
	entries := make(map[int][]byte)
	for i := 0; i < size; i++ {
		entry, err := r.readString()
		if err != nil {
			return nil, fmt.Errorf("section %s cell %d: %w", SectionUserRebus, i, err)
		}
		if len(entry) > 0 {
			entries[i] = entry
		}
	}
	return entries, nil
}

// encodeUserRebus reports false when no cell has an entry, in which case the
// section is not written at all.
func encodeUserRebus(entries map[int][]byte, size int) ([]byte, bool) {
	if len(entries) == 0 {
		return nil, false
	}
	var buf bytes.Buffer
	for i := 0; i < size; i++ {
		buf.Write(entries[i])
		buf.WriteByte(0)
	}
	return buf.Bytes(), true
}

type TimerInfo struct {
	Elapsed time.Duration
	Running bool
}

// parseTimer reads "<seconds>,<0|1>" where 0 means running. A timer that never
// advanced always comes back running.
func parseTimer(data []byte) (TimerInfo, error) {
	tokens := strings.Split(string(data), ",")
	if len(tokens) < 2 {
		return TimerInfo{}, fmt.Errorf("%w: %q", ErrBadTimerSection, data)
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(tokens[0]), 10, 64)
	if err != nil || secs < 0 {
		return TimerInfo{}, fmt.Errorf("%w: %q", ErrBadTimerSection, data)
	}
	running := strings.TrimSpace(tokens[1]) == "0"
	if secs == 0 {
		running = true
	}
	return TimerInfo{Elapsed: time.Duration(secs) * time.Second, Running: running}, nil
}

func encodeTimer(t TimerInfo) []byte {
	state := "1"
	if t.Running {
		state = "0"
	}
	return []byte(fmt.Sprintf("%d,%s", int64(t.Elapsed/time.Second), state))
}
