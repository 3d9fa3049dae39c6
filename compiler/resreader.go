package compiler

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformedRes indicates a .res stream that cannot be parsed back into
// records.
var ErrMalformedRes = errors.New("malformed .res data")

// ReadRecords parses a .res byte stream back into records, sentinel
// included. It exists for round-trip verification.
func ReadRecords(data []byte) ([]Record, error) {
	var records []Record
	pos := 0
	for pos < len(data) {
		record, next, err := readRecord(data, pos)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
		pos = next
	}
	return records, nil
}

func readRecord(data []byte, pos int) (Record, int, error) {
	if pos+8 > len(data) {
		return Record{}, 0, fmt.Errorf("%w: truncated record header at offset %d", ErrMalformedRes, pos)
	}
	dataSize := binary.LittleEndian.Uint32(data[pos:])
	headerSize := binary.LittleEndian.Uint32(data[pos+4:])
	if headerSize < 8 || pos+int(headerSize) > len(data) {
		return Record{}, 0, fmt.Errorf("%w: header size %d out of bounds at offset %d", ErrMalformedRes, headerSize, pos)
	}

	header := data[pos+8 : pos+int(headerSize)]
	typ, n, err := readNameOrOrdinal(header)
	if err != nil {
		return Record{}, 0, err
	}
	name, m, err := readNameOrOrdinal(header[n:])
	if err != nil {
		return Record{}, 0, err
	}
	rest := header[n+m:]
	rest = rest[padTo4(n+m):]
	if len(rest) < 16 {
		return Record{}, 0, fmt.Errorf("%w: truncated header tail at offset %d", ErrMalformedRes, pos)
	}

	record := Record{
		Type:            typ,
		Name:            name,
		DataVersion:     binary.LittleEndian.Uint32(rest[0:]),
		MemoryFlags:     binary.LittleEndian.Uint16(rest[4:]),
		Language:        binary.LittleEndian.Uint16(rest[6:]),
		Version:         binary.LittleEndian.Uint32(rest[8:]),
		Characteristics: binary.LittleEndian.Uint32(rest[12:]),
	}

	dataStart := pos + int(headerSize)
	dataEnd := dataStart + int(dataSize)
	if dataEnd > len(data) {
		return Record{}, 0, fmt.Errorf("%w: data size %d out of bounds at offset %d", ErrMalformedRes, dataSize, pos)
	}
	record.Data = append([]byte(nil), data[dataStart:dataEnd]...)

	next := dataEnd + padTo4(int(dataSize))
	if next > len(data) {
		next = len(data)
	}
	return record, next, nil
}

func readNameOrOrdinal(b []byte) (NameOrOrdinal, int, error) {
	if len(b) >= 4 && binary.LittleEndian.Uint16(b) == 0xFFFF {
		return Ordinal(binary.LittleEndian.Uint16(b[2:])), 4, nil
	}
	var units []uint16
	for i := 0; i+1 < len(b); i += 2 {
		u := binary.LittleEndian.Uint16(b[i:])
		if u == 0 {
			return NameOrOrdinal{Name: units}, i + 2, nil
		}
		units = append(units, u)
	}
	return NameOrOrdinal{}, 0, fmt.Errorf("%w: unterminated identifier string", ErrMalformedRes)
}
