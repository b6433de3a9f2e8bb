package system

import "encoding/binary"

// Linux input-event-codes.h
const (
	evKey = 0x01

	KeyEsc   uint16 = 1
	KeyR     uint16 = 19
	KeyT     uint16 = 20
	KeyS     uint16 = 31
	KeyB     uint16 = 48
	KeyF4    uint16 = 62
	KeyUp    uint16 = 103
	KeyDown  uint16 = 108
	KeyLeft  uint16 = 105
	KeyRight uint16 = 106
)

// keyPressed is the input_event value of a key going down; 2 is autorepeat.
const (
	keyPressed = 1
	keyRepeat  = 2
)

// parseKeyPresses extracts the codes of pressed (or repeating) keys from a
// buffer of input_event records. tvSize is the size of struct timeval.
func parseKeyPresses(buf []byte, tvSize int) []uint16 {
	eventSize := tvSize + 2 + 2 + 4
	var codes []uint16
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		// type and code are immediately after timeval.
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ == evKey && (value == keyPressed || value == keyRepeat) {
			codes = append(codes, code)
		}
	}
	return codes
}
