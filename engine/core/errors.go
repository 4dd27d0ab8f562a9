package core

import (
	"errors"
)

var (
	ErrUnrecognizedVersion = errors.New("unrecognized cost version")
	ErrNotRootEdit         = errors.New("object is not a linkset root")
	ErrUnknownObject       = errors.New("unknown object")
	ErrUnknownAvatar       = errors.New("unknown avatar")
	ErrInvalidScene        = errors.New("invalid scene description")
	ErrAssetManagerClosed  = errors.New("asset manager already closed")
	ErrUnknownResourceType = errors.New("unknown resource type")
	ErrUnknown             = errors.New("unknown")
)
