package domain

import "errors"

var (
	// ErrBadgeNotFound is returned when a badge id is missing from the catalog.
	ErrBadgeNotFound = errors.New("badge not found")
	// ErrNegativeDelta is returned when a caller tries to take points away.
	ErrNegativeDelta = errors.New("point delta must not be negative")
	// ErrPointsOverflow is returned when adding points would exceed the largest representable total.
	ErrPointsOverflow = errors.New("point total would overflow")
	// ErrCorruptData indicates a persisted blob could not be decoded.
	ErrCorruptData = errors.New("persisted data is corrupt")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizIncomplete is returned when submitting before every question has an answer.
	ErrQuizIncomplete = errors.New("quiz has unanswered questions")
	// ErrInvalidState is returned when an operation is not allowed in the current state.
	ErrInvalidState = errors.New("operation not allowed in current state")
	// ErrInvalidSelection indicates an out of range question, option or card.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrSessionComplete is returned for actions on a finished game.
	ErrSessionComplete = errors.New("game session already complete")
	// ErrAwaitingFeedback is returned while a game is showing feedback before advancing.
	ErrAwaitingFeedback = errors.New("game is showing feedback")
	// ErrGameNotFound is returned when no live game session has the given id.
	ErrGameNotFound = errors.New("game session not found")
	// ErrUnknownVariant is returned for an unsupported mini-game name.
	ErrUnknownVariant = errors.New("unknown game variant")
)
