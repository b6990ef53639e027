package utils

import "errors"

// ErrUserInitiatedExit is returned when the user asks to leave, for instance by
// typing 'quit' or pressing ctrl+c.
var ErrUserInitiatedExit = errors.New("user exit")
