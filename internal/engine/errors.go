package engine

import "errors"

// dependencyUnavailableError signals a missing native runtime (e.g. the
// binary was built without the llama tag).
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing runtime.
func IsDependencyUnavailable(err error) bool {
	var de dependencyUnavailableError
	return errors.As(err, &de)
}

// ErrNotLoaded is returned by Generate on a handle whose Load has not
// succeeded.
var ErrNotLoaded = errors.New("model not loaded")
