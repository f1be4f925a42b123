package screens

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestForm(t *testing.T) {
	f := NewForm("New employee").
		Text("Name", "", 20).
		Choice("Role", roleOptions, "site")
	f.Focus()

	assert.Equal(t, "site", f.Value("Role"))

	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" Thandi ")})
	assert.Equal(t, "Thandi", f.Value("Name"))

	submitted, cancelled, _ := f.Update(key(tea.KeyTab))
	assert.False(t, submitted)
	assert.False(t, cancelled)

	f.Update(key(tea.KeyRight))
	assert.Equal(t, "management", f.Value("Role"))
	f.Update(key(tea.KeyLeft))
	assert.Equal(t, "site", f.Value("Role"))

	submitted, _, _ = f.Update(key(tea.KeyEnter))
	assert.True(t, submitted)

	_, cancelled, _ = f.Update(key(tea.KeyEsc))
	assert.True(t, cancelled)

	assert.Empty(t, f.Value("Missing"))
}

func TestProgressBar(t *testing.T) {
	assert.Contains(t, ProgressBar(50, 10), " 50.0%")
	assert.Contains(t, ProgressBar(150, 10), "100.0%")
	assert.Contains(t, ProgressBar(-3, 10), "  0.0%")
}

func TestCursorHelpers(t *testing.T) {
	assert.Equal(t, 1, moveCursor(0, 3, "down"))
	assert.Equal(t, 2, moveCursor(2, 3, "j"))
	assert.Equal(t, 0, moveCursor(0, 3, "up"))
	assert.Equal(t, 1, clampCursor(5, 2))
	assert.Equal(t, 0, clampCursor(3, 0))
}
