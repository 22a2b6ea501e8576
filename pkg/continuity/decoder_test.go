package continuity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// proximityPayload builds manufacturer data holding one proximity-pairing
// record whose three battery slots carry the given raw values.
func proximityPayload(primary, secondary, charging byte) []byte {
	payload := make([]byte, 25)
	payload[11] = primary
	payload[12] = secondary
	payload[13] = charging

	data := []byte{0x4C, 0x00, 0x07, 0x19}
	return append(data, payload...)
}

func TestDecodeBatteryLevelReturnsMinimum(t *testing.T) {
	level, ok := DecodeBatteryLevel(proximityPayload(0x32, 0x2D, 0x50))
	assert.True(t, ok)
	assert.Equal(t, 45, level)
}

func TestDecodeBatteryLevelDeterministic(t *testing.T) {
	data := proximityPayload(80, 60, 0)
	first, ok := DecodeBatteryLevel(data)
	assert.True(t, ok)

	for i := 0; i < 100; i++ {
		level, ok := DecodeBatteryLevel(data)
		assert.True(t, ok)
		assert.Equal(t, first, level)
	}
	assert.Equal(t, 60, first)
}

func TestDecodeBatteryLevelFiltersSentinels(t *testing.T) {
	// 0 and values above 100 mean "no reading".
	level, ok := DecodeBatteryLevel(proximityPayload(0, 0xFF, 45))
	assert.True(t, ok)
	assert.Equal(t, 45, level)
}

func TestDecodeBatteryLevelAllSentinels(t *testing.T) {
	_, ok := DecodeBatteryLevel(proximityPayload(0, 0xFF, 0xC8))
	assert.False(t, ok)
}

func TestDecodeBatteryLevelForeignCompany(t *testing.T) {
	data := proximityPayload(50, 50, 50)
	data[0] = 0x75
	data[1] = 0x00

	_, ok := DecodeBatteryLevel(data)
	assert.False(t, ok)
}

func TestDecodeBatteryLevelShortBuffers(t *testing.T) {
	_, ok := DecodeBatteryLevel(nil)
	assert.False(t, ok)

	_, ok = DecodeBatteryLevel([]byte{0x4C})
	assert.False(t, ok)

	// Header only, no records.
	_, ok = DecodeBatteryLevel([]byte{0x4C, 0x00})
	assert.False(t, ok)
}

func TestDecodeBatteryLevelDeclaredLengthOverrun(t *testing.T) {
	// Length claims 25 bytes but the buffer ends early.
	data := []byte{0x4C, 0x00, 0x07, 0x19, 0x01, 0x02}
	_, ok := DecodeBatteryLevel(data)
	assert.False(t, ok)
}

func TestDecodeBatteryLevelSkipsUnknownRecords(t *testing.T) {
	// A nearby-info record precedes the proximity-pairing record.
	data := []byte{0x4C, 0x00, 0x10, 0x02, 0xAA, 0xBB}
	payload := make([]byte, 25)
	payload[11] = 33
	payload[12] = 77
	payload[13] = 0
	data = append(data, 0x07, 0x19)
	data = append(data, payload...)

	level, ok := DecodeBatteryLevel(data)
	assert.True(t, ok)
	assert.Equal(t, 33, level)
}

func TestDecodeBatteryLevelShortProximityRecord(t *testing.T) {
	// Proximity-pairing type with a length below the battery layout.
	data := []byte{0x4C, 0x00, 0x07, 0x04, 0x01, 0x02, 0x03, 0x04}
	_, ok := DecodeBatteryLevel(data)
	assert.False(t, ok)
}
