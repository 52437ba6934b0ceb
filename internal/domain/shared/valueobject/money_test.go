package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"zero", "0", "R$ 0,00"},
		{"small", "81.46", "R$ 81,46"},
		{"thousands", "1234.5", "R$ 1.234,50"},
		{"millions", "1234567.891", "R$ 1.234.567,89"},
		{"rounds half up", "40.725", "R$ 40,73"},
		{"negative", "-1500", "R$ -1.500,00"},
		{"negative rounding to zero", "-0.001", "R$ 0,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBRL(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "18,54%", FormatPercent(decimal.RequireFromString("18.54")))
	assert.Equal(t, "5,00%", FormatPercent(decimal.NewFromInt(5)))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234.56", "1234.56"},
		{"1234,56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"R$ 1.234,56", "1234.56"},
		{"1.234.567", "1234567"},
		{"  42 ", "42"},
		{"-3,5", "-3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseAmount("abc")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseAmount("  ")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestValidPercentage(t *testing.T) {
	assert.True(t, ValidPercentage(decimal.Zero))
	assert.True(t, ValidPercentage(decimal.NewFromInt(100)))
	assert.False(t, ValidPercentage(decimal.NewFromInt(-1)))
	assert.False(t, ValidPercentage(decimal.RequireFromString("100.01")))
}
