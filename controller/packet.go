package controller

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

const (
	startShort byte = 0x02
	startLong  byte = 0x03
	stopByte   byte = 0x03
)

type commandID byte

const (
	commFWVersion       commandID = 0
	commSetDuty         commandID = 5
	commSetCurrent      commandID = 6
	commSetCurrentBrake commandID = 7
	commSetRPM          commandID = 8
	commSetPos          commandID = 9
)

var (
	// ErrBadPacket is returned when a reply does not have valid framing or checksum
	ErrBadPacket = errors.New("malformed packet")
	// ErrNoResponse is returned when the controller does not reply in time
	ErrNoResponse = errors.New("no response from controller")
)

// crc16 is CRC-16/XMODEM: polynomial 0x1021, initial value 0
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// encodePacket frames a payload. Payloads up to 255 bytes use the short header
func encodePacket(payload []byte) []byte {
	b := make([]byte, 0, len(payload)+6)
	if len(payload) <= 0xFF {
		b = append(b, startShort, byte(len(payload)))
	} else {
		b = append(b, startLong)
		b = binary.BigEndian.AppendUint16(b, uint16(len(payload)))
	}
	b = append(b, payload...)
	b = binary.BigEndian.AppendUint16(b, crc16(payload))
	return append(b, stopByte)
}

// commandPayload is a command ID followed by a big-endian int32 argument
func commandPayload(id commandID, v int32) []byte {
	b := []byte{byte(id)}
	return binary.BigEndian.AppendUint32(b, uint32(v))
}

// decodePacket reads one framed packet and returns its payload
func decodePacket(r io.Reader) ([]byte, error) {
	var header [1]byte
	_, err := io.ReadFull(r, header[:])
	if err != nil {
		return nil, err
	}

	var length int
	switch header[0] {
	case startShort:
		var l [1]byte
		_, err = io.ReadFull(r, l[:])
		if err != nil {
			return nil, err
		}
		length = int(l[0])
	case startLong:
		var l [2]byte
		_, err = io.ReadFull(r, l[:])
		if err != nil {
			return nil, err
		}
		length = int(binary.BigEndian.Uint16(l[:]))
	default:
		return nil, fmt.Errorf("%w: unexpected start byte 0x%02x", ErrBadPacket, header[0])
	}

	body := make([]byte, length+3)
	_, err = io.ReadFull(r, body)
	if err != nil {
		return nil, err
	}

	payload := body[:length]
	if body[length+2] != stopByte {
		return nil, fmt.Errorf("%w: missing stop byte", ErrBadPacket)
	}
	expected := binary.BigEndian.Uint16(body[length : length+2])
	if crc := crc16(payload); crc != expected {
		return nil, fmt.Errorf("%w: checksum 0x%04x, expected 0x%04x", ErrBadPacket, crc, expected)
	}

	return payload, nil
}

// deadlineReader turns the empty reads of a timed-out serial port into ErrNoResponse once the deadline passes
type deadlineReader struct {
	r        io.Reader
	deadline time.Time
}

func (d deadlineReader) Read(p []byte) (int, error) {
	for {
		n, err := d.r.Read(p)
		if n > 0 {
			return n, nil
		}
		if errors.Is(err, io.EOF) {
			return 0, ErrNoResponse
		}
		if err != nil {
			return 0, err
		}
		if time.Now().After(d.deadline) {
			return 0, ErrNoResponse
		}
	}
}
