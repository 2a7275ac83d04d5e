package timeline

import "errors"

// Sentinel error kinds for the model and operation layers. Callers
// branch on these with errors.Is; messages wrapped around them carry
// the offending name or id.
var (
	ErrDuplicateBranch = errors.New("branch already exists")
	ErrUnknownBranch   = errors.New("unknown branch")
	ErrUnknownSnapshot = errors.New("unknown snapshot")
	ErrNoStash         = errors.New("no such stash")
	ErrInvalidArgument = errors.New("invalid argument")
)
