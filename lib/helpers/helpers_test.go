package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `$50,000\.00`, EscapeMarkdownV2(`$50,000.00`))
	assert.Equal(t, `plain text`, EscapeMarkdownV2(`plain text`))
	assert.Equal(t, `a\*b\_c\[d\]`, EscapeMarkdownV2(`a*b_c[d]`))
}

func TestFormatPriceUS(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{50000, "50,000"},
		{1234.56, "1,235"},
		{42.5, "42.50"},
		{0.5, "0.500000"},
		{0.000001, "0.00000100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPriceUS(tt.price, false), "price %f", tt.price)
	}
}

func TestFormatPriceUSEscaped(t *testing.T) {
	// The comma is not a MarkdownV2 special character, the dot is.
	assert.Equal(t, `42.50`, FormatPriceUS(42.5, false))
	assert.Equal(t, `42\.50`, FormatPriceUS(42.5, true))
}

func TestFormatSignedUSD(t *testing.T) {
	assert.Equal(t, "+$1,250.00", FormatSignedUSD(1250))
	assert.Equal(t, "-$1,250.00", FormatSignedUSD(-1250))
	assert.Equal(t, "+$0.00", FormatSignedUSD(0))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+2.4%", FormatPercent(2.41))
	assert.Equal(t, "-8.1%", FormatPercent(-8.1))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, 3, 7, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "07.03 14:30", FormatDate(ts))
}
