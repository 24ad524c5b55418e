package types

import "time"

type Segment struct {
	Start time.Duration
	End   time.Duration
}

func (s Segment) Duration() time.Duration { return s.End - s.Start }

type Manifest struct {
	RunID       string         `json:"run_id"`
	Input       string         `json:"input"`
	Output      string         `json:"output"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	FrameRate   string         `json:"frame_rate"`
	DurationSec float64        `json:"duration_sec"`
	Published   string         `json:"published,omitempty"`
	Parts       []ManifestPart `json:"parts"`
}

type ManifestPart struct {
	Kind        PartKind `json:"kind"`
	File        string   `json:"file"`
	StartSec    float64  `json:"start_sec,omitempty"`
	EndSec      float64  `json:"end_sec,omitempty"`
	FocalX      float64  `json:"focal_x,omitempty"`
	FocalY      float64  `json:"focal_y,omitempty"`
	OffsetPx    int      `json:"offset_px,omitempty"`
	DurationSec float64  `json:"duration_sec"`
	Truncated   bool     `json:"truncated,omitempty"`
}

type PartKind string

const (
	PartSegment PartKind = "segment"
	PartSlide   PartKind = "slide"
)
