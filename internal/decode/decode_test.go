package decode_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/babystats/internal/decode"
	"github.com/pkordes/babystats/internal/domain"
)

// ---- Timestamp ---------------------------------------------------------------

func TestTimestamp_UTCWallClockConvertedToLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)

	got, err := decode.Timestamp("03/02/2024 04:30", loc)

	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())
	assert.True(t, got.Equal(time.Date(2024, 2, 3, 4, 30, 0, 0, time.UTC)))
	// 04:30 UTC is 23:30 the previous evening five hours west.
	assert.Equal(t, 23, got.Hour())
	assert.Equal(t, 2, got.Day())
}

func TestTimestamp_SingleDigitFields(t *testing.T) {
	got, err := decode.Timestamp("3/2/2024 4:05", time.UTC)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 3, 4, 5, 0, 0, time.UTC), got)
}

func TestTimestamp_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"2024-02-03 04:30",
		"03/02/2024",
		"32/01/2024 10:00",
		"03/13/2024 10:00",
		"03/02/2024 25:00",
		"03/02/2024 10:00:00",
		" 1/3/2024 9:05 ",
		"1/3/2024 9:05\t",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := decode.Timestamp(in, time.UTC)
			assert.ErrorIs(t, err, domain.ErrMalformedTimestamp)
		})
	}
}

func TestOptionalTimestamp_EmptyIsNil(t *testing.T) {
	got, err := decode.OptionalTimestamp("  ", time.UTC)

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOptionalTimestamp_MalformedIsError(t *testing.T) {
	_, err := decode.OptionalTimestamp("yesterday", time.UTC)

	assert.ErrorIs(t, err, domain.ErrMalformedTimestamp)
}

// ---- Duration ----------------------------------------------------------------

func TestDuration_OK(t *testing.T) {
	cases := map[string]time.Duration{
		"0:00":  0,
		"00:45": 45 * time.Minute,
		"1:30":  90 * time.Minute,
		"12:05": 12*time.Hour + 5*time.Minute,
		"130:0": 130 * time.Hour,
	}
	for in, want := range cases {
		got, err := decode.Duration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestDuration_Malformed(t *testing.T) {
	for _, in := range []string{"", "90", "1:30:00", "a:10", "1:b", "-1:30", "1:-5", ":", "3000000:00", "2562047:48"} {
		t.Run(in, func(t *testing.T) {
			_, err := decode.Duration(in)
			assert.ErrorIs(t, err, domain.ErrMalformedDuration)
		})
	}
}

func TestDuration_LargestRepresentable(t *testing.T) {
	// 2562047h47m is the last whole minute below math.MaxInt64 nanoseconds.
	got, err := decode.Duration("2562047:47")

	require.NoError(t, err)
	assert.Positive(t, got)
	assert.Equal(t, 2562047*time.Hour+47*time.Minute, got)
}

// TestDuration_RoundTrip verifies that rendering a decoded duration and decoding
// it again yields the same number of minutes.
func TestDuration_RoundTrip(t *testing.T) {
	for _, in := range []string{"0:00", "00:59", "01:00", "07:42", "23:59", "36:15"} {
		d, err := decode.Duration(in)
		require.NoError(t, err)

		again, err := decode.Duration(decode.FormatHHMM(d))

		require.NoError(t, err)
		assert.Equal(t, d, again, in)
	}
}

// ---- Ounces ------------------------------------------------------------------

func TestOunces(t *testing.T) {
	assert.Equal(t, 4.0, decode.Ounces("4 oz"))
	assert.Equal(t, 2.5, decode.Ounces("2.5 oz"))
	assert.Equal(t, 0.0, decode.Ounces(""), "missing quantity is zero")
	assert.Equal(t, 0.0, decode.Ounces("120 ml"), "unknown unit is zero")
	assert.Equal(t, 0.0, decode.Ounces("lots oz"), "bad number is zero")
}

func TestOuncesToML_Truncates(t *testing.T) {
	assert.Equal(t, 118, decode.OuncesToML(4))
	assert.Equal(t, 29, decode.OuncesToML(1))
	assert.Equal(t, 0, decode.OuncesToML(0))
}

// ---- Embedded sub-measurements -----------------------------------------------

func TestGrowthFrom_AllPresent(t *testing.T) {
	g := decode.GrowthFrom("Weight: 12.5 lb, Height: 24 in, Head circumference: 16.25 in")

	require.NotNil(t, g.WeightLB)
	require.NotNil(t, g.HeightIn)
	require.NotNil(t, g.HeadCircumferenceIn)
	assert.Equal(t, 12.5, *g.WeightLB)
	assert.Equal(t, 24.0, *g.HeightIn)
	assert.Equal(t, 16.25, *g.HeadCircumferenceIn)
}

func TestGrowthFrom_Independent(t *testing.T) {
	g := decode.GrowthFrom("Height: 24.5 in")

	assert.Nil(t, g.WeightLB)
	assert.Nil(t, g.HeadCircumferenceIn)
	require.NotNil(t, g.HeightIn)
	assert.Equal(t, 24.5, *g.HeightIn)
}

func TestGrowthFrom_MalformedIsAbsent(t *testing.T) {
	g := decode.GrowthFrom("Weight: heavy lb")

	assert.Nil(t, g.WeightLB)
}

func TestGrowth_Merge(t *testing.T) {
	primary := decode.GrowthFrom("Weight: 10 lb")
	fallback := decode.GrowthFrom("Weight: 11 lb, Height: 22 in")

	got := primary.Merge(fallback)

	assert.Equal(t, 10.0, *got.WeightLB, "primary value wins")
	assert.Equal(t, 22.0, *got.HeightIn, "missing value filled")
	assert.Nil(t, got.HeadCircumferenceIn)
}

func TestPumpSides(t *testing.T) {
	left, right := decode.PumpSides("2L 2R")
	require.NotNil(t, left)
	require.NotNil(t, right)
	assert.Equal(t, 2, *left)
	assert.Equal(t, 2, *right)

	left, right = decode.PumpSides("60 L, right side sore")
	require.NotNil(t, left)
	assert.Equal(t, 60, *left)
	assert.Nil(t, right)

	left, right = decode.PumpSides("good session")
	assert.Nil(t, left)
	assert.Nil(t, right)
}

// ---- Formatting --------------------------------------------------------------

func TestFormat(t *testing.T) {
	d := 2*time.Hour + 5*time.Minute + 9*time.Second + 300*time.Millisecond

	assert.Equal(t, "02:05", decode.FormatHHMM(d))
	assert.Equal(t, "02:05:09", decode.FormatHHMMSS(d))
	assert.Equal(t, "100:00:00", decode.FormatHHMMSS(100*time.Hour))
	assert.Equal(t, "00:00", decode.FormatHHMM(-time.Minute))
}
