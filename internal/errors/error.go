package errors

import "errors"

var (
	ErrParse         = errors.New("malformed sgf record")
	ErrConfiguration = errors.New("invalid configuration")
	ErrRange         = errors.New("turn is outside the analyzed range")
	ErrNotAnalyzed   = errors.New("turn has no deep analysis")
	ErrOracle        = errors.New("katago analysis failed")
	ErrGeometry      = errors.New("coordinate is outside the board")
	ErrNotFound      = errors.New("not found")
	ErrInternal      = errors.New("internal error")
)
