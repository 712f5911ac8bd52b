package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection(t *testing.T) {
	s := NewSelection(TypeSHA1, TypeURL, TypeSHA1, Type(250))

	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Empty())
	assert.True(t, s.Contains(TypeURL))
	assert.True(t, s.Contains(TypeSHA1))
	assert.False(t, s.Contains(TypeMD5))
	assert.False(t, s.Contains(Type(250)))
	assert.Equal(t, []Type{TypeURL, TypeSHA1}, s.Types(), "types come back in canonical order")
	assert.Equal(t, "url,sha1", s.String())
}

func TestSelection_Empty(t *testing.T) {
	var s Selection
	assert.True(t, s.Empty())
	assert.Empty(t, s.Types())
	assert.Equal(t, "", s.String())
}

func TestMatch_Before(t *testing.T) {
	a := Match{Line: 1, Span: OffsetSpan{Start: 5}}
	b := Match{Line: 1, Span: OffsetSpan{Start: 9}}
	c := Match{Line: 2, Span: OffsetSpan{Start: 0}}

	assert.True(t, a.Before(b))
	assert.True(t, b.Before(c))
	assert.False(t, c.Before(a))
	assert.False(t, a.Before(a))
}
