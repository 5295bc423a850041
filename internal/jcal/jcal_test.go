package jcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestYearMonth(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		// Nowruz 1403.
		{time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), "1403/1"},
		{time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC), "1403/2"},
		{time.Date(2024, 3, 19, 12, 0, 0, 0, time.UTC), "1402/12"},
		{time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC), "1401/10"},
		{time.Date(2021, 10, 5, 12, 0, 0, 0, time.UTC), "1400/7"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, YearMonth(tc.in), "input %s", tc.in)
	}
}

func TestYearMonthDeterministic(t *testing.T) {
	d := time.Date(2024, 5, 3, 7, 30, 0, 0, time.UTC)
	first := YearMonth(d)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, YearMonth(d))
	}
}

func TestYearMonthIgnoresServerZone(t *testing.T) {
	instant := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*3600)
	require.Equal(t, YearMonth(instant), YearMonth(instant.In(tokyo)))
}

func TestDate(t *testing.T) {
	// 2024-03-20 is Farvardin 1, 1403.
	require.Equal(t, "1403/1/1", Date(time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)))
}
