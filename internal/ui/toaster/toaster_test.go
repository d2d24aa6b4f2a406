package toaster

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShow(t *testing.T) {
	m, cmd := New().Show("Saved", StyleSuccess)

	require.NotNil(t, cmd)
	assert.True(t, m.Visible())
	assert.Contains(t, m.View(), "✅ Saved")
}

func TestNew_Hidden(t *testing.T) {
	m := New()
	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestStyles(t *testing.T) {
	tests := []struct {
		style Style
		icon  string
	}{
		{StyleSuccess, "✅"},
		{StyleError, "❌"},
		{StyleInfo, "ℹ️"},
		{StyleWarn, "⚠️"},
	}
	for _, tt := range tests {
		m, _ := New().Show("msg", tt.style)
		assert.Contains(t, m.View(), tt.icon+" msg")
	}
}

func TestError(t *testing.T) {
	m, cmd := New().Error(nil)
	assert.Nil(t, cmd)
	assert.False(t, m.Visible())

	m, cmd = New().Error(errors.New("sink occupied"))
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "❌ sink occupied")
}

func TestDismiss_OnlyHidesLatest(t *testing.T) {
	m := New().WithDuration(time.Millisecond)
	m, first := m.Show("First", StyleInfo)
	m, second := m.Show("Second", StyleInfo)

	m = m.Update(first())
	assert.True(t, m.Visible(), "stale dismissal is ignored")
	assert.Contains(t, m.View(), "Second")

	m = m.Update(second())
	assert.False(t, m.Visible())
}

func TestHide_Immutable(t *testing.T) {
	m1, _ := New().Show("Hello", StyleSuccess)
	m2 := m1.Hide()

	assert.True(t, m1.Visible())
	assert.False(t, m2.Visible())
}

func TestOverlay(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 20)+"\n", 10), "\n")
	assert.Equal(t, bg, New().Overlay(bg, 20, 10))

	m, _ := New().Show("Toast", StyleSuccess)
	lines := strings.Split(m.Overlay(bg, 20, 10), "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[7], "Toast", "three-row box ends one row above the bottom")
	assert.Equal(t, strings.Repeat(".", 20), lines[0])
}
