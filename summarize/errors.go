package summarize

import "errors"

var (
	// ErrEmptySelection indicates a cross-document request with no filenames.
	ErrEmptySelection = errors.New("no documents selected")

	// ErrSummaryGeneration indicates the generator failed for at least one
	// page or for the synthesis call.
	ErrSummaryGeneration = errors.New("summary generation failed")
)
