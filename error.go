package pgenum

import "errors"

var (
	ErrBadConfig     = errors.New("bad config")
	ErrExists        = errors.New("exists")
	ErrMismatch      = errors.New("mismatch")
	ErrMissingData   = errors.New("missing data")
	ErrNotExist      = errors.New("not exist")
	ErrNotFound      = errors.New("not found")
	ErrNotValid      = errors.New("invalid")
	ErrUnaddressable = errors.New("unaddressable value")
	ErrUnexpected    = errors.New("unexpected")
)
