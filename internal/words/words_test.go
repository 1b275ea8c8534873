package words_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/words"
)

func TestIndian(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want string
	}{
		{name: "Zero", in: 0, want: "Zero"},
		{name: "Teen", in: 15, want: "Fifteen"},
		{name: "RoundTens", in: 40, want: "Forty"},
		{name: "Hundreds", in: 105, want: "One Hundred Five"},
		{name: "Thousands", in: 3540, want: "Three Thousand Five Hundred Forty"},
		{name: "Lakh", in: 125000, want: "One Lakh Twenty Five Thousand"},
		{name: "Crore", in: 12345678, want: "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight"},
		{name: "HundredCrore", in: 1_000_000_000, want: "One Hundred Crore"},
		{name: "LakhCrore", in: 1_000_000_000_000, want: "One Lakh Crore"},
		{name: "Negative", in: -42, want: "Minus Forty Two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := words.Indian(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndian_OutOfRange(t *testing.T) {
	_, err := words.Indian(math.MinInt64)
	assert.ErrorIs(t, err, words.ErrOutOfRange)
}
