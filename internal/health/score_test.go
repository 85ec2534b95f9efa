package health

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bizhealth-workers/internal/common/errors"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDailyScore(t *testing.T) {
	tests := []struct {
		name     string
		sales    string
		expenses string
		wastage  string
		want     int
	}{
		{"healthy cafe day", "15000", "8000", "500", 60},
		{"no sales", "0", "500", "0", 0},
		{"loss day clamps to zero", "1000", "2000", "0", 0},
		{"break even", "1000", "1000", "0", 0},
		{"ten percent margin", "1000", "900", "0", 35},
		{"margin capped at 70", "1000", "0", "0", 70},
		{"penalty capped at 30", "1000", "0", "500", 40},
		{"rounds half up", "1000", "990", "0", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DailyScore(dec(tt.sales), dec(tt.expenses), dec(tt.wastage))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDailyScore_RejectsNegative(t *testing.T) {
	for _, in := range [][3]string{
		{"-1", "0", "0"},
		{"100", "-1", "0"},
		{"100", "0", "-0.01"},
	} {
		_, err := DailyScore(dec(in[0]), dec(in[1]), dec(in[2]))
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidMetric), "%v", in)
	}
}

func TestDailyScore_Bounds(t *testing.T) {
	values := []string{"0", "0.01", "1", "99.99", "500", "1000", "15000", "1000000"}
	for _, s := range values {
		for _, e := range values {
			for _, w := range values {
				got, err := DailyScore(dec(s), dec(e), dec(w))
				require.NoError(t, err)
				assert.GreaterOrEqual(t, got, 0)
				assert.LessOrEqual(t, got, 100)
			}
		}
	}
}

func TestDailyScore_Monotonic(t *testing.T) {
	sales := dec("10000")

	previous := 101
	for w := int64(0); w <= 2000; w += 25 {
		got, err := DailyScore(sales, dec("8500"), decimal.NewFromInt(w))
		require.NoError(t, err)
		assert.LessOrEqual(t, got, previous, "wastage %d", w)
		previous = got
	}

	previous = -1
	for e := int64(12000); e >= 0; e -= 150 {
		got, err := DailyScore(sales, decimal.NewFromInt(e), dec("300"))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, previous, "expenses %d", e)
		previous = got
	}
}

func TestMarginAndWastageRatio(t *testing.T) {
	assert.Equal(t, "0.4667", Margin(dec("15000"), dec("8000")).String())
	assert.Equal(t, "0.0333", WastageRatio(dec("15000"), dec("500")).String())
	assert.Equal(t, "-1", Margin(dec("1000"), dec("2000")).String())
	assert.True(t, Margin(decimal.Zero, dec("10")).IsZero())
	assert.True(t, WastageRatio(decimal.Zero, dec("10")).IsZero())
}

func TestDailyMetricRecord(t *testing.T) {
	date := time.Date(2024, 3, 10, 18, 45, 0, 0, time.FixedZone("IST", 19800))

	r, err := NewDailyMetricRecord("owner-1", date, dec("15000"), dec("8000"), dec("500"))
	require.NoError(t, err)
	assert.Equal(t, 60, r.HealthScore())
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), r.Date())
	assert.Equal(t, "7000", r.Profit().String())

	require.NoError(t, r.Update(dec("1000"), dec("2000"), dec("0")))
	assert.Equal(t, 0, r.HealthScore())
	assert.Equal(t, "1000", r.Sales().String())

	err = r.Update(dec("1000"), dec("-1"), dec("0"))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidMetric))
	assert.Equal(t, "2000", r.Expenses().String())
	assert.Equal(t, 0, r.HealthScore())

	entry := r.WithID("rec-1").Entry()
	assert.Equal(t, "rec-1", r.ID())
	assert.Equal(t, "2024-03-10", entry.Date)
	assert.Equal(t, "-1", entry.Margin.String())
}

func TestNewDailyMetricRecord_Invalid(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := NewDailyMetricRecord("", day, dec("1"), dec("1"), dec("1"))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidMetric))

	_, err = NewDailyMetricRecord("owner", time.Time{}, dec("1"), dec("1"), dec("1"))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidMetric))

	_, err = NewDailyMetricRecord("owner", day, dec("-5"), dec("1"), dec("1"))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidMetric))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())

	_, err = ParseDate("29/02/2024")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidMetric))
}
