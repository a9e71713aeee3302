package booking

import (
	"testing"
	"time"

	"github.com/airlock-stays/service-booking/internal/platform/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, in, out string) DateRange {
	t.Helper()
	r, err := ParseDateRange(in, out)
	require.NoError(t, err)
	return r
}

func TestNewDateRange_DropsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	r, err := NewDateRange(
		time.Date(2024, 1, 10, 23, 30, 0, 0, loc),
		time.Date(2024, 1, 15, 1, 0, 0, 0, loc),
	)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), r.CheckIn)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), r.CheckOut)
	assert.Equal(t, 5, r.Nights())
}

func TestNewDateRange_RejectsEmptyOrInvertedStay(t *testing.T) {
	_, err := ParseDateRange("2024-01-15", "2024-01-15")
	assert.True(t, domain.IsValidation(err))

	_, err = ParseDateRange("2024-01-15", "2024-01-10")
	assert.True(t, domain.IsValidation(err))

	_, err = ParseDateRange("15/01/2024", "2024-01-20")
	assert.True(t, domain.IsValidation(err))
}

func TestConflicts(t *testing.T) {
	existing := mustRange(t, "2024-01-10", "2024-01-15")

	tests := []struct {
		name      string
		requested DateRange
		inclusive bool
		boundary  bool
	}{
		{"checkout day equals requested check-in", mustRange(t, "2024-01-15", "2024-01-20"), true, true},
		{"check-in day equals requested check-out", mustRange(t, "2024-01-05", "2024-01-10"), true, true},
		{"day after checkout", mustRange(t, "2024-01-16", "2024-01-20"), false, false},
		{"ends the day before check-in", mustRange(t, "2024-01-01", "2024-01-09"), false, false},
		{"requested covers existing", mustRange(t, "2024-01-01", "2024-01-31"), true, true},
		{"requested inside existing", mustRange(t, "2024-01-11", "2024-01-14"), true, false},
		{"partial overlap at the end", mustRange(t, "2024-01-12", "2024-01-18"), true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.inclusive, Conflicts(existing, tc.requested, PolicyInclusive))
			assert.Equal(t, tc.boundary, Conflicts(existing, tc.requested, PolicyBoundary))
		})
	}
}

func TestParseOverlapPolicy(t *testing.T) {
	p, err := ParseOverlapPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyInclusive, p)

	p, err = ParseOverlapPolicy("boundary")
	require.NoError(t, err)
	assert.Equal(t, PolicyBoundary, p)

	_, err = ParseOverlapPolicy("strict")
	assert.Error(t, err)
}
