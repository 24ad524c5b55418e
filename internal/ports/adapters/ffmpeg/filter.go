package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ddrozdov/mkshort/internal/domain/geometry"
)

func cropFilter(r geometry.Rect) string {
	return fmt.Sprintf("crop=%d:%d:%d:%d", r.W, r.H, r.X, r.Y)
}

func scaleFilter(s geometry.Size) string {
	return fmt.Sprintf("scale=%d:%d", s.W, s.H)
}

// setptsFilter speeds video up by rescaling presentation timestamps.
func setptsFilter(speed float64) string {
	return "setpts=PTS/" + formatFloat(speed)
}

// atempoChain splits a speed factor into atempo stages; a single atempo
// instance only accepts factors in [0.5, 2.0].
func atempoChain(speed float64) string {
	var stages []string
	for speed > 2.0 {
		stages = append(stages, "atempo=2.0")
		speed /= 2.0
	}
	for speed < 0.5 {
		stages = append(stages, "atempo=0.5")
		speed *= 2.0
	}
	return strings.Join(append(stages, "atempo="+formatFloat(speed)), ",")
}

// fadeFilters brackets a clip of duration dur with fades. Zero fades are
// elided: fade with d=0 falls back to a frame-count default instead of
// disabling itself. The fade-out start clamps at zero when the clip is
// shorter than the fade.
func fadeFilters(dur, fadeIn, fadeOut time.Duration) []string {
	var fades []string
	if fadeIn > 0 {
		fades = append(fades, fmt.Sprintf("fade=t=in:st=0:d=%s", fmtSeconds(fadeIn)))
	}
	if fadeOut > 0 {
		outStart := dur - fadeOut
		if outStart < 0 {
			outStart = 0
		}
		fades = append(fades, fmt.Sprintf("fade=t=out:st=%s:d=%s", fmtSeconds(outStart), fmtSeconds(fadeOut)))
	}
	return fades
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
