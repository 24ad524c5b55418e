package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddrozdov/mkshort/internal/domain/geometry"
)

func TestParseSpan(t *testing.T) {
	tests := []struct {
		in      string
		want    Span
		wantErr bool
	}{
		{in: "157-162", want: Span{Start: 157, End: 162}},
		{in: "12.5-31.25", want: Span{Start: 12.5, End: 31.25}},
		{in: "0-1", want: Span{Start: 0, End: 1}},
		{in: " 3 - 9 ", want: Span{Start: 3, End: 9}},
		{in: "162-157", wantErr: true},
		{in: "5-5", wantErr: true},
		{in: "157", wantErr: true},
		{in: "a-b", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseSpan(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseFocal(t *testing.T) {
	got, err := ParseFocal("0.3,0.5")
	require.NoError(t, err)
	assert.Equal(t, Focal{X: 0.3, Y: 0.5}, got)

	got, err = ParseFocal("1.2, -0.1")
	require.NoError(t, err)
	assert.Equal(t, Focal{X: 1.2, Y: -0.1}, got)

	for _, bad := range []string{"0.3", "x,y", ""} {
		_, err := ParseFocal(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseAspect(t *testing.T) {
	got, err := ParseAspect("9:16")
	require.NoError(t, err)
	assert.Equal(t, geometry.AspectRatio{W: 9, H: 16}, got)

	got, err = ParseAspect("16:9")
	require.NoError(t, err)
	assert.Equal(t, geometry.AspectRatio{W: 16, H: 9}, got)

	for _, bad := range []string{"916", "9:0", "0:16", "-9:16", "a:b", ""} {
		_, err := ParseAspect(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseResolution(t *testing.T) {
	got, err := ParseResolution("1080x1920")
	require.NoError(t, err)
	assert.Equal(t, geometry.Size{W: 1080, H: 1920}, got)

	for _, bad := range []string{"1080", "1080x", "x1920", "1081x1920", "1080x1919", "0x0", "-2x10", ""} {
		_, err := ParseResolution(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
