package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Color
		wantErr bool
	}{
		{name: "argb with hash", input: "#FFB2DFDB", want: DefaultShelfColor},
		{name: "argb without hash", input: "80102030", want: 0x80102030},
		{name: "rgb gets opaque alpha", input: "#B2DFDB", want: DefaultShelfColor},
		{name: "lower case", input: "#ffcccccc", want: EmptySlotColor},
		{name: "too short", input: "#FFF", wantErr: true},
		{name: "not hex", input: "#GGGGGGGG", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorChannels(t *testing.T) {
	c := Color(0x80102030)
	assert.Equal(t, uint8(0x80), c.A())
	assert.Equal(t, uint8(0x10), c.R())
	assert.Equal(t, uint8(0x20), c.G())
	assert.Equal(t, uint8(0x30), c.B())
	assert.Equal(t, "#80102030", c.String())
	assert.Equal(t, "#102030", c.RGBHex())
}

func TestColorStringRoundTrip(t *testing.T) {
	for _, c := range []Color{0, DefaultShelfColor, EmptySlotColor, 0xFFFFFFFF, 0x00ABCDEF} {
		got, err := ParseColor(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}
