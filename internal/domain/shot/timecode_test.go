package shot

import "testing"

func TestDecodeGameTime_RoundTripsKnownPeriods(t *testing.T) {
	cases := []struct {
		period int
		offset int
		want   int
	}{
		{PeriodFirstHalf, 754, 754},
		{PeriodSecondHalf, 120, 2820},
		{PeriodExtraFirstHalf, 30, 5430},
		{PeriodExtraSecondHalf, 899, 8999},
	}
	for _, tc := range cases {
		raw := EncodeGameTime(tc.period, tc.offset)
		got, period := DecodeGameTime(raw)
		if got != tc.want || period != tc.period {
			t.Fatalf("period=%d offset=%d: got seconds=%d period=%d, want %d/%d", tc.period, tc.offset, got, period, tc.want, tc.period)
		}
	}
}

func TestDecodeGameTime_UnknownValues(t *testing.T) {
	raws := []int64{
		0,
		-5,
		EncodeGameTime(4, 1),
		EncodeGameTime(3, 2700+1),
		EncodeGameTime(255, 12),
		1 << 40,
	}
	for _, raw := range raws {
		if got, period := DecodeGameTime(raw); got != 0 || period != 0 {
			t.Fatalf("raw=%d: expected unknown, got seconds=%d period=%d", raw, got, period)
		}
	}
}

func TestDecodeGameTime_CeilingIsInclusive(t *testing.T) {
	raw := EncodeGameTime(3, MaxGameSeconds-3*PeriodSeconds)
	if got, _ := DecodeGameTime(raw); got != MaxGameSeconds {
		t.Fatalf("expected %d at ceiling, got %d", MaxGameSeconds, got)
	}
}
