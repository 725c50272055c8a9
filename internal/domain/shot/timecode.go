package shot

const (
	PeriodFirstHalf       = 0
	PeriodSecondHalf      = 1
	PeriodExtraFirstHalf  = 2
	PeriodExtraSecondHalf = 3

	PeriodSeconds  = 2700
	MaxGameSeconds = 180 * 60

	offsetBits = 24
	offsetMask = 1<<offsetBits - 1
)

// DecodeGameTime unpacks a raw event time: the bits above the low 24 carry
// the period index, the low 24 the offset in seconds within that period.
// Zero, negative and out-of-range values decode to 0 ("unknown").
func DecodeGameTime(raw int64) (seconds int, period int) {
	if raw <= 0 {
		return 0, 0
	}

	p := raw >> offsetBits
	total := p*PeriodSeconds + raw&offsetMask
	if total > MaxGameSeconds {
		return 0, 0
	}
	return int(total), int(p)
}

// EncodeGameTime is the inverse of DecodeGameTime for in-range values.
func EncodeGameTime(period, offset int) int64 {
	return int64(period)<<offsetBits | int64(offset)&offsetMask
}
