package compiler

import "encoding/binary"

// buffer is a little-endian scratch buffer for serializing record data.
// Each record gets its own bounded scratch; nothing here outlives a record.
type buffer struct {
	b []byte
}

func (w *buffer) u8(v uint8) {
	w.b = append(w.b, v)
}

func (w *buffer) u16(v uint16) {
	w.b = binary.LittleEndian.AppendUint16(w.b, v)
}

func (w *buffer) u32(v uint32) {
	w.b = binary.LittleEndian.AppendUint32(w.b, v)
}

func (w *buffer) raw(p []byte) {
	w.b = append(w.b, p...)
}

func (w *buffer) units(p []uint16) {
	for _, u := range p {
		w.u16(u)
	}
}

// sz writes a null-terminated UTF-16LE string.
func (w *buffer) sz(p []uint16) {
	w.units(p)
	w.u16(0)
}

// nameOrOrdinal writes a NameOrOrdinal in its in-data form (0xFFFF-prefixed
// ordinal or sz string), as used by dialog menu/class fields.
func (w *buffer) nameOrOrdinal(n NameOrOrdinal) {
	if n.IsOrdinal {
		w.u16(0xFFFF)
		w.u16(n.Ordinal)
		return
	}
	w.sz(n.Name)
}

// align4 pads with zero bytes to a DWORD boundary.
func (w *buffer) align4() {
	for len(w.b)%4 != 0 {
		w.b = append(w.b, 0)
	}
}

// align2 pads with zero bytes to a WORD boundary.
func (w *buffer) align2() {
	if len(w.b)%2 != 0 {
		w.b = append(w.b, 0)
	}
}

func (w *buffer) len() int {
	return len(w.b)
}

// patchU16 overwrites a previously written WORD, for back-patched lengths.
func (w *buffer) patchU16(off int, v uint16) {
	binary.LittleEndian.PutUint16(w.b[off:], v)
}
