package core

import (
	"errors"
	"fmt"
)

// ErrNoVersions is the terminal per-package failure: every candidate URL was
// tried and none produced a usable version.
var ErrNoVersions = errors.New("Unable to get versions")

// UnknownStrategyError is returned when a package forces a strategy name that
// was never registered. This is a configuration error, not a fetch failure.
type UnknownStrategyError struct {
	Name string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy: %s", e.Name)
}
