// Package continuity decodes the vendor manufacturer-data payload that
// paired accessories broadcast over BLE. Only the proximity-pairing record
// carrying battery levels is understood; everything else is skipped.
package continuity

// CompanyID is the 16-bit vendor identifier carried little-endian in the
// first two bytes of the manufacturer data.
const CompanyID uint16 = 0x004C

const (
	recordTypeProximityPairing byte = 0x07
	proximityPairingMinLength  int  = 25

	// Battery percentages sit at these offsets from the record's type byte:
	// primary unit, secondary unit, charging case.
	offsetBatteryPrimary   = 13
	offsetBatterySecondary = 14
	offsetBatteryCase      = 15
)

// DecodeBatteryLevel walks the TLV sequence in raw manufacturer data and
// returns the worst-case (minimum) valid battery percentage it finds.
// Malformed, truncated or foreign input is absence of information, never an
// error: the second return is false and the caller moves on. The function is
// pure and allocation-free; it runs inline on every advertisement observed
// during a scan.
func DecodeBatteryLevel(data []byte) (int, bool) {
	if len(data) < 2 {
		return 0, false
	}

	companyID := uint16(data[0]) | uint16(data[1])<<8
	if companyID != CompanyID {
		return 0, false
	}

	offset := 2
	for offset+1 < len(data) {
		recordType := data[offset]
		length := int(data[offset+1])

		if offset+2+length > len(data) {
			// Declared length overruns the buffer; treat the rest as noise.
			return 0, false
		}

		if recordType == recordTypeProximityPairing && length >= proximityPairingMinLength {
			if level, ok := minValidBattery(
				data[offset+offsetBatteryPrimary],
				data[offset+offsetBatterySecondary],
				data[offset+offsetBatteryCase],
			); ok {
				return level, true
			}
		}

		offset += 2 + length
	}

	return 0, false
}

// minValidBattery filters the three raw readings to (0,100] and returns the
// minimum; 0 and values above 100 are sentinels for "no reading".
func minValidBattery(readings ...byte) (int, bool) {
	best := 0
	found := false
	for _, raw := range readings {
		v := int(raw)
		if v <= 0 || v > 100 {
			continue
		}
		if !found || v < best {
			best = v
			found = true
		}
	}
	return best, found
}
