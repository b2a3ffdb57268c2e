// Package keys derives the canonical injection keys shared by injectors and
// shadow wrappers.
//
// A key is derived from one of three identities:
//   - a path naming an environment or focused value ("colorScheme"),
//   - a Go type for object lookups (reflection, "example.com/app.Settings"),
//   - a literal storage key ("boolKey").
//
// The same slot always derives to the same key, so a value injected during
// test setup is found by the wrapper at read time.
package keys

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Testing is the sentinel key marking that a test is running. Its value is true.
const Testing = "__viewspy_is_running_test__"

const (
	environmentPrefix   = "Environment_"
	objectPrefix        = "EnvironmentObject_"
	stateObjectPrefix   = "StateObject_"
	storagePrefix       = "Storage_"
	sceneStoragePrefix  = "SceneStorage_"
	focusedValuePrefix  = "FocusedValue_"
	focusedObjectPrefix = "FocusedObject_"
	optionalSuffix      = "?"
)

// Environment derives the key of an environment value read by path.
func Environment(path string) string {
	return environmentPrefix + path
}

// EnvironmentType derives the key of an environment value read by its concrete type.
func EnvironmentType[T any]() string {
	return environmentPrefix + TypeName[T]()
}

// EnvironmentObject derives the key of an environment object read by type.
func EnvironmentObject[T any]() string {
	return objectPrefix + TypeName[T]()
}

// OptionalEnvironmentObject derives the key of the optional-typed counterpart
// of EnvironmentObject.
func OptionalEnvironmentObject[T any]() string {
	return EnvironmentObject[T]() + optionalSuffix
}

// StateObject derives the key of a state object by type.
func StateObject[T any]() string {
	return stateObjectPrefix + TypeName[T]()
}

// Storage derives the key of an app-scoped persisted value.
func Storage(key string) string {
	return storagePrefix + key
}

// SceneStorage derives the key of a scene-scoped persisted value.
func SceneStorage(key string) string {
	return sceneStoragePrefix + key
}

// FocusedValue derives the key of a focused value (or binding) read by path.
func FocusedValue(path string) string {
	return focusedValuePrefix + path
}

// FocusedObject derives the key of a focused object read by type.
func FocusedObject[T any]() string {
	return focusedObjectPrefix + TypeName[T]()
}

// TypeName returns the canonical name of T.
func TypeName[T any]() string {
	return typeName(reflect.TypeFor[T]())
}

// TypeNameOf returns the canonical name of the dynamic type of v.
func TypeNameOf(v any) string {
	return typeName(reflect.TypeOf(v))
}

// typeName qualifies named types with their full import path. Pointers keep
// their star so *T and T stay distinct slots.
func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}

	if t.Kind() == reflect.Pointer {
		return "*" + typeName(t.Elem())
	}

	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}

	return t.String()
}

// Pattern names a state-access pattern.
type Pattern string

// Available Pattern values.
const (
	PatternEnvironment               Pattern = "environment"
	PatternEnvironmentValue          Pattern = "environment-value"
	PatternEnvironmentObject         Pattern = "environment-object"
	PatternOptionalEnvironmentObject Pattern = "optional-environment-object"
	PatternState                     Pattern = "state"
	PatternStateObject               Pattern = "state-object"
	PatternStorage                   Pattern = "storage"
	PatternSceneStorage              Pattern = "scene-storage"
	PatternFocusedValue              Pattern = "focused-value"
	PatternFocusedObject             Pattern = "focused-object"
	PatternFocusedBinding            Pattern = "focused-binding"
)

// ErrNoKey is returned by Derive for patterns that are never injected.
var ErrNoKey = errors.New("pattern has no injection key")

// Patterns lists every known pattern.
func Patterns() []Pattern {
	return []Pattern{
		PatternEnvironment,
		PatternEnvironmentValue,
		PatternEnvironmentObject,
		PatternOptionalEnvironmentObject,
		PatternState,
		PatternStateObject,
		PatternStorage,
		PatternSceneStorage,
		PatternFocusedValue,
		PatternFocusedObject,
		PatternFocusedBinding,
	}
}

// ParsePattern resolves a pattern name, case-insensitively.
func ParsePattern(name string) (Pattern, error) {
	normalized := Pattern(strings.ToLower(strings.TrimSpace(name)))
	for _, p := range Patterns() {
		if p == normalized {
			return p, nil
		}
	}

	return "", fmt.Errorf("unknown pattern %q", name)
}

// Signals reports whether an absent test-mode read of p raises a
// missing-injection signal.
func (p Pattern) Signals() bool {
	switch p {
	case PatternEnvironment, PatternEnvironmentValue, PatternEnvironmentObject:
		return true
	default:
		return false
	}
}

// ByType reports whether p is keyed by a type name rather than a path or literal.
func (p Pattern) ByType() bool {
	switch p {
	case PatternEnvironmentValue, PatternEnvironmentObject, PatternOptionalEnvironmentObject,
		PatternStateObject, PatternFocusedObject:
		return true
	default:
		return false
	}
}

// Derive computes the key for pattern p. For type-keyed patterns name must
// already be a canonical type name (see TypeName).
func Derive(p Pattern, name string) (string, error) {
	switch p {
	case PatternEnvironment, PatternEnvironmentValue:
		return environmentPrefix + name, nil
	case PatternEnvironmentObject:
		return objectPrefix + name, nil
	case PatternOptionalEnvironmentObject:
		return objectPrefix + name + optionalSuffix, nil
	case PatternStateObject:
		return stateObjectPrefix + name, nil
	case PatternStorage:
		return storagePrefix + name, nil
	case PatternSceneStorage:
		return sceneStoragePrefix + name, nil
	case PatternFocusedValue, PatternFocusedBinding:
		return focusedValuePrefix + name, nil
	case PatternFocusedObject:
		return focusedObjectPrefix + name, nil
	case PatternState:
		return "", ErrNoKey
	}

	return "", fmt.Errorf("unknown pattern %q", p)
}
