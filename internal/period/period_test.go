package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYMFromDate(t *testing.T) {
	d := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 202501, YMFromDate(d))
}

func TestParseMMYY(t *testing.T) {
	ym, err := ParseMMYY("01/25")
	require.NoError(t, err)
	assert.Equal(t, 202501, ym)

	ym, err = ParseMMYY(" 12/30 ")
	require.NoError(t, err)
	assert.Equal(t, 203012, ym)
}

func TestParseMMYY_Invalid(t *testing.T) {
	for _, s := range []string{"", "0125", "1/25", "13/25", "00/25", "ab/cd", "01/25/31"} {
		_, err := ParseMMYY(s)
		assert.Error(t, err, "expected error for %q", s)
	}
}

func TestFormatYM_RoundTrip(t *testing.T) {
	for _, s := range []string{"01/25", "12/30", "06/99"} {
		ym, err := ParseMMYY(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatYM(ym))
	}
}

func TestIsMMYY(t *testing.T) {
	assert.True(t, IsMMYY("01/25"))
	assert.False(t, IsMMYY("2025-01"))
}

func TestTimeframeFromYM(t *testing.T) {
	tf, err := TimeframeFromYM(202502)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01", tf.Start.Format("2006-01-02"))
	assert.Equal(t, "2025-02-28", tf.End.Format("2006-01-02"))

	_, err = TimeframeFromYM(202513)
	assert.Error(t, err)
}
