package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the detail pane is hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show secondary columns.
	LayoutWideWidth = 130
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// ActionTimeout bounds a single borrow, renew or mark-read call.
	ActionTimeout = 10 * time.Second

	// CoverProbeTimeout bounds a cover HEAD request.
	CoverProbeTimeout = 5 * time.Second
)
