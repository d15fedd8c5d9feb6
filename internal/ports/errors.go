package ports

import "errors"

// ErrUnsupportedArgs reports that a constructor does not accept the arguments it
// was given (unknown or mistyped keys). Callers retry construction without
// arguments instead of failing.
var ErrUnsupportedArgs = errors.New("unsupported construction arguments")
