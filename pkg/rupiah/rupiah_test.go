package rupiah

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "Rp 0"},
		{"25000", "Rp 25.000"},
		{"249000", "Rp 249.000"},
		{"1250000", "Rp 1.250.000"},
		{"999", "Rp 999"},
		{"1000", "Rp 1.000"},
		{"45000.70", "Rp 45.001"},
		{"-50000", "-Rp 50.000"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(decimal.RequireFromString(tc.in)))
		})
	}
}
