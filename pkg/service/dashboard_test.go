package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrowthRate(t *testing.T) {
	cases := []struct {
		name    string
		current int64
		prior   int64
		want    float64
	}{
		{"zero prior month is 100", 5_000_000, 0, 100},
		{"zero both is still 100", 0, 0, 100},
		{"doubling", 20_000_000, 10_000_000, 100},
		{"decline", 5_000_000, 10_000_000, -50},
		{"rounded to two decimals", 10_000_000, 3_000_000, 233.33},
		{"flat", 7_000_000, 7_000_000, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GrowthRate(tc.current, tc.prior))
		})
	}
}
