package status

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestMetricMapCachesPointer(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	a := m.Get("x")
	a.Set(1.5)
	assert.Same(t, a, m.Get("x"))
	assert.Equal(t, 1.5, m.Get("x").Get())
	assert.True(t, m.Has("x"))
	assert.False(t, m.Has("y"))
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	assert.Equal(t, "", s.Load())
	s.Store(strings.Repeat("a", MaxStringLen+10))
	assert.Len(t, s.Load(), MaxStringLen)
}

func TestAtomicStringKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"two byte rune across limit", strings.Repeat("a", MaxStringLen-1) + "é", MaxStringLen - 1},
		{"three byte rune across limit", strings.Repeat("a", MaxStringLen-2) + "€x", MaxStringLen - 2},
		{"rune ending at limit", strings.Repeat("a", MaxStringLen-2) + "é" + "tail", MaxStringLen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s AtomicString
			s.Store(tt.in)
			got := s.Load()
			assert.Len(t, got, tt.want)
			assert.True(t, utf8.ValidString(got))
			assert.True(t, strings.HasPrefix(tt.in, got))
		})
	}
}

func TestRegistrySnapshot(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get(DirectivesOK).Add(3)
	r.Strings.Get(LastError).Store("bad")
	r.Bools.Get(ConsoleAudible).Store(true)
	r.Floats.Get(FrameMillis).Set(0.25)

	snap := r.Snapshot()
	assert.Equal(t, 4, r.TotalCount())
	assert.Equal(t, int64(3), snap[DirectivesOK])
	assert.Equal(t, "bad", snap[LastError])
	assert.Equal(t, true, snap[ConsoleAudible])
	assert.Equal(t, 0.25, snap[FrameMillis])
	assert.Equal(t, []string{DirectivesOK}, r.Ints.Keys())
}
