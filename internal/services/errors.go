package services

import (
	"errors"
	"strings"
)

// Interview domain sentinels. Handlers and tests match these with errors.Is;
// the surrounding AppError carries the code and operation.
var (
	ErrNoQuestionsAvailable     = errors.New("no questions available for interview type")
	ErrInvalidQuestionIndex     = errors.New("invalid question index")
	ErrNoResponsesToAnalyze     = errors.New("no responses found to analyze")
	ErrTranscriptionUnavailable = errors.New("transcription service unavailable")
	ErrSessionClosed            = errors.New("session is no longer accepting responses")
	ErrAlreadyApplied           = errors.New("already applied to this job")
	ErrEmailTaken               = errors.New("email is already registered")
)

// InvalidParametersError carries the question-bank validator's structured
// error list so callers can surface every reason at once.
type InvalidParametersError struct {
	Errors []string
}

func (e *InvalidParametersError) Error() string {
	return "invalid interview parameters: " + strings.Join(e.Errors, "; ")
}
