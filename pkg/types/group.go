package types

import (
	"errors"
	"fmt"
)

// ErrUnknownName is returned when a selection name is neither a type nor a group.
var ErrUnknownName = errors.New("unknown type or group")

// ConfigError reports a selection directive naming something that does not exist.
type ConfigError struct {
	Directive string // "with" or "without"
	Name      string
}

func (e *ConfigError) Error() string {
	if e.Directive == "" {
		return fmt.Sprintf("%v: %q", ErrUnknownName, e.Name)
	}
	return fmt.Sprintf("--%s: %v: %q", e.Directive, ErrUnknownName, e.Name)
}

func (e *ConfigError) Unwrap() error {
	return ErrUnknownName
}

// Group is a named shorthand for a fixed set of base types.
// Groups never contain other groups.
type Group struct {
	Name        string
	Description string
	Members     []Type
}

var groups = []Group{
	{
		Name:        "network",
		Description: "addresses and locators",
		Members:     []Type{TypeIPv4, TypeIPv6, TypeURL, TypeEmail},
	},
	{
		Name:        "identifiers",
		Description: "structured identifiers",
		Members:     []Type{TypeUUID, TypeMACAddress, TypeGitHash, TypeSemVer},
	},
	{
		Name:        "data-formats",
		Description: "structured data fragments",
		Members:     []Type{TypeJSON, TypeXML, TypeSQLQuery, TypeBase64},
	},
	{
		Name:        "errors",
		Description: "runtime errors and stack traces",
		Members: []Type{
			TypePythonTraceback, TypeJavaStackTrace, TypeJavaScriptError,
			TypeGoPanic, TypeRustPanic, TypeCppException,
		},
	},
	{
		Name:        "cpp",
		Description: "C++ exceptions, RTTI and template names",
		Members:     []Type{TypeCppException, TypeCppRTTI, TypeCppTemplate},
	},
	{
		Name:        "hashes",
		Description: "digests by length",
		Members:     []Type{TypeMD5, TypeSHA1, TypeSHA256, TypeSHA512},
	},
	{
		Name:        "security",
		Description: "keys, tokens and credentials",
		Members:     []Type{TypeSSHKey, TypeSecret, TypeJWT},
	},
}

var groupsByName = func() map[string]int {
	m := make(map[string]int, len(groups))
	for i, g := range groups {
		m[g.Name] = i
	}
	return m
}()

// defaultHidden lists types that stay out of a run unless requested.
var defaultHidden = []Type{
	TypeGitHash,
	TypeHex,
	TypeBase64,
	TypeCppException,
	TypeCppRTTI,
	TypeCppTemplate,
}

// AllGroups returns a copy of the group table.
func AllGroups() []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{
			Name:        g.Name,
			Description: g.Description,
			Members:     append([]Type(nil), g.Members...),
		}
	}
	return out
}

// LookupGroup returns the group with the given name.
func LookupGroup(name string) (Group, bool) {
	i, ok := groupsByName[name]
	if !ok {
		return Group{}, false
	}
	return groups[i], true
}

// DefaultHidden returns the types excluded from a default run, in canonical order.
func DefaultHidden() []Type {
	return append([]Type(nil), defaultHidden...)
}

// IsDefaultHidden reports whether t is hidden unless explicitly requested.
func IsDefaultHidden(t Type) bool {
	for _, h := range defaultHidden {
		if h == t {
			return true
		}
	}
	return false
}

// ResolveName expands a type or group name into base types.
// Matching is exact and case-sensitive; prefixes are not accepted.
func ResolveName(name string) ([]Type, error) {
	if t, ok := ParseType(name); ok {
		return []Type{t}, nil
	}
	if g, ok := LookupGroup(name); ok {
		return append([]Type(nil), g.Members...), nil
	}
	return nil, &ConfigError{Name: name}
}
