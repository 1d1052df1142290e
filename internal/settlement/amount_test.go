package settlement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      float64
		want    string
		wantErr bool
	}{
		{name: "whole", in: 90, want: "90"},
		{name: "cents", in: 12.5, want: "12.5"},
		{name: "zero", in: 0, want: "0"},
		{name: "negative", in: -0.01, wantErr: true},
		{name: "nan", in: math.NaN(), wantErr: true},
		{name: "inf", in: math.Inf(1), wantErr: true},
		{name: "negative inf", in: math.Inf(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAmount(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount(" 19.99 ")
	require.NoError(t, err)
	assert.Equal(t, "19.99", got.String())

	for _, bad := range []string{"", "abc", "-3", "1e", "NaN"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", bad)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "33.33", FormatAmount(d("100").Div(d("3"))))
	assert.Equal(t, "30.00", FormatAmount(d("30")))
}

func TestIsSettled(t *testing.T) {
	assert.True(t, IsSettled(d("0")))
	assert.True(t, IsSettled(d("0.01")))
	assert.True(t, IsSettled(d("-0.01")))
	assert.False(t, IsSettled(d("0.011")))
	assert.False(t, IsSettled(d("-0.02")))
}
