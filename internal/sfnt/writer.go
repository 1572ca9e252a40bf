package sfnt

import (
	"encoding/binary"
	"math"
)

// writer appends big-endian values to a growing buffer.
type writer struct {
	buf []byte
}

func (w *writer) Len() int { return len(w.buf) }

func (w *writer) Bytes() []byte { return w.buf }

func (w *writer) WriteUint8(v uint8) { w.buf = append(w.buf, v) }

func (w *writer) WriteUint16(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }

func (w *writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }

func (w *writer) WriteUint32(v uint32) { w.buf = binary.BigEndian.AppendUint32(w.buf, v) }

func (w *writer) WriteInt64(v int64) { w.buf = binary.BigEndian.AppendUint64(w.buf, uint64(v)) }

func (w *writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

func (w *writer) WriteString(s string) { w.buf = append(w.buf, s...) }

// WriteFixed writes a 16.16 fixed-point number.
func (w *writer) WriteFixed(v float64) {
	w.WriteUint32(uint32(int32(math.Round(v * 65536))))
}

// Pad appends zero bytes up to the next multiple of n.
func (w *writer) Pad(n int) {
	for len(w.buf)%n != 0 {
		w.buf = append(w.buf, 0)
	}
}

// PutUint16 overwrites two bytes at pos.
func (w *writer) PutUint16(pos int, v uint16) { binary.BigEndian.PutUint16(w.buf[pos:], v) }

// PutUint32 overwrites four bytes at pos.
func (w *writer) PutUint32(pos int, v uint32) { binary.BigEndian.PutUint32(w.buf[pos:], v) }

// checksum is the sfnt table checksum: the sum of big-endian uint32 words,
// with the tail zero-padded to a whole word.
func checksum(data []byte) uint32 {
	var sum uint32
	for len(data) >= 4 {
		sum += binary.BigEndian.Uint32(data)
		data = data[4:]
	}
	if len(data) > 0 {
		var tail [4]byte
		copy(tail[:], data)
		sum += binary.BigEndian.Uint32(tail[:])
	}
	return sum
}

// searchParams returns the binary search header fields for n entries of
// the given size, as used by the table directory and cmap format 4.
func searchParams(n, size int) (searchRange, entrySelector, rangeShift uint16) {
	if n == 0 {
		return 0, 0, 0
	}
	sel := 0
	for 1<<(sel+1) <= n {
		sel++
	}
	sr := (1 << sel) * size
	return uint16(sr), uint16(sel), uint16(n*size - sr)
}
