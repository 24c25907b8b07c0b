package domain

import "errors"

var (
	ErrStepOutOfRange   = errors.New("step index out of range")
	ErrItemOutOfRange   = errors.New("list item index out of range")
	ErrUnknownField     = errors.New("unknown field")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrIncomplete       = errors.New("report has unfilled required fields")
	ErrSubmissionFailed = errors.New("report submission failed")
	ErrNoArtifact       = errors.New("no generated report to download")
	ErrReportNotFound   = errors.New("report not found")
)
