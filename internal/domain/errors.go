package domain

import "errors"

var (
	// ErrInvalidTransition is returned when a host command is not valid in the
	// session's current status.
	ErrInvalidTransition = errors.New("invalid session state transition")
	// ErrDuplicateAnswer is returned when a player re-submits for a question
	// they already answered.
	ErrDuplicateAnswer = errors.New("answer already recorded for this question")
	// ErrStaleSubmission is returned when a submission targets a question that
	// is no longer (or not yet) current.
	ErrStaleSubmission = errors.New("submission targets a non-current question")
	// ErrInvalidAnswerLabel indicates the selected option is not a valid label.
	ErrInvalidAnswerLabel = errors.New("selected answer is not a valid option")
	// ErrNoQuestions is returned when starting a quiz with an empty question list.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrSessionNotFound is returned for an unknown game code.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrPlayerNotFound is returned when a player acts before joining.
	ErrPlayerNotFound = errors.New("player not found in session")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSessionFull is returned when joining would exceed max players.
	ErrSessionFull = errors.New("session is at player capacity")
	// ErrNicknameTaken is returned when a connected player already uses the nickname.
	ErrNicknameTaken = errors.New("nickname already in use")
)
