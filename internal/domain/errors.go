package domain

import "errors"

var (
	// ErrEmptyQuestionSet is returned when a session is started without questions.
	ErrEmptyQuestionSet = errors.New("question set is empty")
	// ErrInvalidOption indicates the chosen option does not belong to the current question.
	ErrInvalidOption = errors.New("option not found in current question")
	// ErrInvalidTransition indicates an operation was invoked in a state that forbids it.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrQuestionSetNotFound indicates the question set could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrInvalidQuestionSet indicates loaded content breaks question set invariants.
	ErrInvalidQuestionSet = errors.New("invalid question set")
	// ErrSessionNotFound is returned when an assessment session is not registered.
	ErrSessionNotFound = errors.New("assessment session not found")
	// ErrUnauthenticated is returned when a result is submitted without a user.
	ErrUnauthenticated = errors.New("user not authenticated")
	// ErrSubmissionFailed wraps result sink failures.
	ErrSubmissionFailed = errors.New("result submission failed")
	// ErrAlreadySubmitted is returned when a session result was already persisted.
	ErrAlreadySubmitted = errors.New("result already submitted")
)
