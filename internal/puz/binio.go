package puz

import (
	"bytes"
	"encoding/binary"
)

// reader walks a fully buffered puz stream. Every read that runs past the end
// fails with ErrUnexpectedEndOfInput.
type reader struct {
	buf []byte
	off int
}

func newReader(data []byte) *reader {
	return &reader{buf: data}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) readByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, ErrUnexpectedEndOfInput
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *reader) readUint16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, ErrUnexpectedEndOfInput
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

// readBytes returns a copy so callers may keep the slice after the input is gone.
func (r *reader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, ErrUnexpectedEndOfInput
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+n])
	r.off += n
	return out, nil
}

func (r *reader) skip(n int) error {
	if r.remaining() < n {
		return ErrUnexpectedEndOfInput
	}
	r.off += n
	return nil
}

// readString reads up to and including a zero byte and returns the bytes
// before it.
func (r *reader) readString() ([]byte, error) {
	out := make([]byte, 0, 8)
	for {
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return out, nil
		}
		out = append(out, b)
	}
}

type writer struct {
	buf bytes.Buffer
}

func (w *writer) writeByte(b byte) {
	w.buf.WriteByte(b)
}

func (w *writer) writeUint16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf.Write(tmp[:])
}

func (w *writer) writeBytes(b []byte) {
	w.buf.Write(b)
}

func (w *writer) writeZeros(n int) {
	w.buf.Write(make([]byte, n))
}

// writeString writes b followed by its zero terminator.
func (w *writer) writeString(b []byte) {
	w.buf.Write(b)
	w.buf.WriteByte(0)
}

func (w *writer) bytes() []byte {
	return w.buf.Bytes()
}
