package voicepool

import "errors"

var (
	// ErrInvalidSource is returned by Play when the source reference does
	// not resolve. No slot is consumed and no session is created.
	ErrInvalidSource = errors.New("voicepool: source does not resolve")

	// ErrPoolExhausted is returned by Play when every slot is occupied.
	// The caller may retry after some release happens; the pool never
	// retries on its own.
	ErrPoolExhausted = errors.New("voicepool: no free slot")
)
