package sql

import "encoding/binary"

const (
	tagInt    = 0
	tagString = 1
)

// encodeRow packs values into the byte payload stored under the row's
// primary key: a column count, then per column a type tag followed by
// either an 8-byte little-endian int64 or a length-prefixed string.
func encodeRow(values []Literal) []byte {
	buf := make([]byte, 0, 1+len(values)*9)
	buf = append(buf, byte(len(values)))
	for _, v := range values {
		if v.IsInt {
			buf = append(buf, tagInt)
			buf = binary.LittleEndian.AppendUint64(buf, uint64(v.Int))
		} else {
			buf = append(buf, tagString)
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(v.Str)))
			buf = append(buf, v.Str...)
		}
	}
	return buf
}

// decodeRow is encodeRow's inverse. A malformed payload (from data
// written by something other than this VM) returns ok=false rather
// than panicking.
func decodeRow(buf []byte) (values []Literal, ok bool) {
	if len(buf) < 1 {
		return nil, false
	}
	numCols := int(buf[0])
	pos := 1

	values = make([]Literal, 0, numCols)
	for i := 0; i < numCols; i++ {
		if pos >= len(buf) {
			return nil, false
		}
		tag := buf[pos]
		pos++

		switch tag {
		case tagInt:
			if pos+8 > len(buf) {
				return nil, false
			}
			n := int64(binary.LittleEndian.Uint64(buf[pos : pos+8]))
			pos += 8
			values = append(values, Literal{IsInt: true, Int: n})
		case tagString:
			if pos+4 > len(buf) {
				return nil, false
			}
			length := int(binary.LittleEndian.Uint32(buf[pos : pos+4]))
			pos += 4
			if pos+length > len(buf) {
				return nil, false
			}
			values = append(values, Literal{Str: string(buf[pos : pos+length])})
			pos += length
		default:
			return nil, false
		}
	}
	return values, true
}
