package grammar

type MatchError struct {
	message string
}

func newMatchError(message string) *MatchError {
	return &MatchError{
		message: message,
	}
}

func (e *MatchError) Error() string {
	return e.message
}

var (
	ErrNotFound           = newMatchError("no production matches the criterion")
	ErrInvalidIndex       = newMatchError("production index out of range")
	ErrCancelled          = newMatchError("matching was cancelled")
	ErrUnsupportedToken   = newMatchError("unsupported token variant")
	ErrCollectionTooLarge = newMatchError("token collection is too large to enumerate")
	ErrInvalidProduction  = newMatchError("invalid production")
	ErrNoProduction       = newMatchError("a production set needs at least one production")
)
