package ideas

import (
	"context"
	"errors"

	"idea-analyzer/internal/analyzer/httpclient"
	"idea-analyzer/internal/submission"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrEmptyAnnotation   = errors.New("annotation text is required")
	ErrReportUnavailable = errors.New("report generation failed")
)

const (
	ErrorCodeAnalysisFailed   = "analysis_failed"
	ErrorCodeAnalysisTimeout  = "analysis_timeout"
	ErrorCodeAnalysisBusy     = "analysis_in_progress"
	ErrorCodeReportGeneration = "report_generation_failed"
)

// failurePrefix leads every message shown to a submitter whose attempt failed,
// whether the input was rejected or the analysis call broke.
const failurePrefix = "Analysis failed: "

// SubmitError is a failed analysis call.
type SubmitError struct {
	Cause error
}

func (e *SubmitError) Error() string {
	if e.Cause == nil {
		return "analysis failed: unknown error"
	}
	return "analysis failed: " + e.Cause.Error()
}

func (e *SubmitError) Unwrap() error {
	return e.Cause
}

// Code classifies the failure for the run ledger.
func (e *SubmitError) Code() string {
	var te *httpclient.TransportError
	if errors.Is(e.Cause, context.DeadlineExceeded) || (errors.As(e.Cause, &te) && te.Timeout()) {
		return ErrorCodeAnalysisTimeout
	}
	return ErrorCodeAnalysisFailed
}

// FailureMessage is the single human-readable message a submitter sees for a
// rejected input or a failed analysis.
func FailureMessage(err error) string {
	var verr *submission.ValidationError
	var serr *SubmitError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return failurePrefix + verr.Message
	case errors.As(err, &serr):
		if serr.Cause == nil {
			return failurePrefix + "unknown error"
		}
		return failurePrefix + serr.Cause.Error()
	default:
		return failurePrefix + err.Error()
	}
}
