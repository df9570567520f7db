package controller

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC16(t *testing.T) {
	assert.Equal(t, uint16(0x31C3), crc16([]byte("123456789")))
	assert.Equal(t, uint16(0), crc16(nil))
}

func TestEncodePacket(t *testing.T) {
	t.Run("Short", func(t *testing.T) {
		payload := commandPayload(commSetCurrent, 22500)
		assert.Equal(t, []byte{0x06, 0x00, 0x00, 0x57, 0xE4}, payload)

		b := encodePacket(payload)
		require.Len(t, b, 10)
		assert.Equal(t, startShort, b[0])
		assert.Equal(t, byte(5), b[1])
		assert.Equal(t, payload, b[2:7])
		crc := crc16(payload)
		assert.Equal(t, []byte{byte(crc >> 8), byte(crc)}, b[7:9])
		assert.Equal(t, stopByte, b[9])
	})

	t.Run("Long", func(t *testing.T) {
		payload := bytes.Repeat([]byte{0xAA}, 300)

		b := encodePacket(payload)
		require.Len(t, b, 306)
		assert.Equal(t, []byte{startLong, 0x01, 0x2C}, b[:3])
		assert.Equal(t, stopByte, b[305])
	})

	t.Run("NegativeArgument", func(t *testing.T) {
		assert.Equal(t, []byte{0x07, 0xFF, 0xFF, 0xE0, 0xC0}, commandPayload(commSetCurrentBrake, -8000))
	})
}

func TestDecodePacket(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"Empty", []byte{}},
		{"Command", commandPayload(commSetRPM, 16000)},
		{"Long", bytes.Repeat([]byte{0x01, 0x02, 0x03}, 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := decodePacket(bytes.NewReader(encodePacket(tt.payload)))
			require.NoError(t, err)
			assert.Equal(t, tt.payload, payload)
		})
	}
}

func TestDecodePacketErrors(t *testing.T) {
	valid := encodePacket([]byte{0x00, 0x06, 0x02})

	t.Run("BadStart", func(t *testing.T) {
		_, err := decodePacket(bytes.NewReader([]byte{0x7F}))
		assert.ErrorIs(t, err, ErrBadPacket)
	})

	t.Run("BadChecksum", func(t *testing.T) {
		b := bytes.Clone(valid)
		b[len(b)-2] ^= 0xFF
		_, err := decodePacket(bytes.NewReader(b))
		assert.ErrorIs(t, err, ErrBadPacket)
	})

	t.Run("MissingStop", func(t *testing.T) {
		b := bytes.Clone(valid)
		b[len(b)-1] = 0x00
		_, err := decodePacket(bytes.NewReader(b))
		assert.ErrorIs(t, err, ErrBadPacket)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := decodePacket(bytes.NewReader(valid[:4]))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})
}

func TestParseFirmware(t *testing.T) {
	fw, err := parseFirmware([]byte{6, 2, '7', '5', '_', '3', '0', 0, 0xAB})
	require.NoError(t, err)
	assert.Equal(t, Firmware{Major: 6, Minor: 2, Hardware: "75_30"}, fw)
	assert.Equal(t, "6.02 (75_30)", fw.String())

	fw, err = parseFirmware([]byte{5, 3})
	require.NoError(t, err)
	assert.Equal(t, "5.03", fw.String())

	_, err = parseFirmware([]byte{5})
	assert.ErrorIs(t, err, ErrBadPacket)
}
