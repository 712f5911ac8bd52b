package selection

import (
	"errors"
	"testing"

	"github.com/praetorian-inc/sift/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(sel types.Selection) []string {
	out := []string{}
	for _, t := range sel.Types() {
		out = append(out, t.String())
	}
	return out
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		expected []string
	}{
		{
			name:     "with is an exact allow-list",
			opts:     Options{With: []string{"url"}},
			expected: []string{"url"},
		},
		{
			name:     "group minus member",
			opts:     Options{With: []string{"network"}, Without: []string{"email"}},
			expected: []string{"url", "ipv4", "ipv6"},
		},
		{
			name:     "with surfaces hidden types",
			opts:     Options{With: []string{"hex", "md5"}},
			expected: []string{"hex", "md5"},
		},
		{
			name:     "overlapping entries collapse",
			opts:     Options{With: []string{"network", "url", "url"}},
			expected: []string{"url", "email", "ipv4", "ipv6"},
		},
		{
			name:     "group shares a member with another group",
			opts:     Options{With: []string{"errors", "cpp"}},
			expected: []string{"python-traceback", "java-stack-trace", "javascript-error", "go-panic", "rust-panic", "cpp-exception", "cpp-rtti", "cpp-template"},
		},
		{
			name:     "with ignores no-defaults",
			opts:     Options{With: []string{"uuid"}, NoDefaults: true},
			expected: []string{"uuid"},
		},
		{
			name:     "everything removed is legal",
			opts:     Options{With: []string{"network"}, Without: []string{"network"}},
			expected: []string{},
		},
		{
			name:     "without applies to defaults",
			opts:     Options{Without: []string{"errors", "data-formats", "identifiers", "security", "hashes", "timestamp", "ipv6", "email"}},
			expected: []string{"url", "ipv4"},
		},
		{
			name:     "without a hidden type is a no-op",
			opts:     Options{With: []string{"url"}, Without: []string{"hex"}},
			expected: []string{"url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Resolve(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(sel))
		})
	}
}

func TestResolve_DefaultExcludesHidden(t *testing.T) {
	sel, err := Resolve(Options{})
	require.NoError(t, err)

	for _, ty := range types.AllTypes() {
		assert.Equal(t, !types.IsDefaultHidden(ty), sel.Contains(ty), ty.String())
	}
	assert.Equal(t, sel, Default())
}

func TestResolve_NoDefaultsIncludesEverything(t *testing.T) {
	sel, err := Resolve(Options{NoDefaults: true})
	require.NoError(t, err)
	assert.Equal(t, types.NumTypes(), sel.Len())

	sel, err = Resolve(Options{NoDefaults: true, Without: []string{"cpp"}})
	require.NoError(t, err)
	assert.False(t, sel.Contains(types.TypeCppRTTI))
	assert.True(t, sel.Contains(types.TypeHex))
}

func TestResolve_GroupExpansionEquivalence(t *testing.T) {
	for _, g := range types.AllGroups() {
		members := make([]string, 0, len(g.Members))
		for _, m := range g.Members {
			members = append(members, m.String())
		}

		t.Run(g.Name, func(t *testing.T) {
			byGroup, err := Resolve(Options{With: []string{g.Name}})
			require.NoError(t, err)
			byMembers, err := Resolve(Options{With: members})
			require.NoError(t, err)
			assert.Equal(t, byMembers, byGroup)

			byGroup, err = Resolve(Options{NoDefaults: true, Without: []string{g.Name}})
			require.NoError(t, err)
			byMembers, err = Resolve(Options{NoDefaults: true, Without: members})
			require.NoError(t, err)
			assert.Equal(t, byMembers, byGroup)
		})
	}
}

func TestResolve_UnknownNames(t *testing.T) {
	_, err := Resolve(Options{With: []string{"bogus-type", "url"}, Without: []string{"Network", "md"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUnknownName)

	var cfgErr *types.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "with", cfgErr.Directive)
	assert.Equal(t, "bogus-type", cfgErr.Name)

	msg := err.Error()
	assert.Contains(t, msg, `--with: unknown type or group: "bogus-type"`)
	assert.Contains(t, msg, `--without: unknown type or group: "Network"`)
	assert.Contains(t, msg, `--without: unknown type or group: "md"`)

	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 3)
}
