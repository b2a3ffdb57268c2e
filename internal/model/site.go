package model

import (
	"fmt"

	"gooze.dev/pkg/viewspy/pkg/keys"
)

// Site is a shadow wrapper declaration found in a source file.
type Site struct {
	Pattern keys.Pattern
	// Name is the path, storage key or canonical type name the key is derived
	// from. For dynamic sites it holds the expression text instead.
	Name string
	// Key is the canonical injection key. Empty for dynamic sites and for
	// patterns that are never injected.
	Key string
	// Type is the canonical name of the value type the wrapper reads, empty
	// when it could not be resolved statically.
	Type string
	// Dynamic marks sites whose name is not a compile-time literal.
	Dynamic bool
	Source  Source
	Line    int
	Column  int
}

// Location returns "file:line" for display.
func (s Site) Location() string {
	path := ""
	if s.Source.Origin != nil {
		path = string(s.Source.Origin.ShortPath)
	}

	return fmt.Sprintf("%s:%d", path, s.Line)
}

// Injectable reports whether the site can be satisfied from a fixture.
func (s Site) Injectable() bool {
	return !s.Dynamic && s.Key != ""
}
