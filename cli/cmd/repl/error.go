package repl

import "github.com/ardnew/ajscript/pkg"

// Sentinel errors.
var (
	ErrOutOfBounds  = pkg.NewError("history index out of range")
	ErrEditDeclined = pkg.NewError("edit declined")
	ErrNoSession    = pkg.NewError("no session")
)
