package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Grid(t *testing.T) {
	kb := NewBuilder().
		Grid(3, Button("1", "a"), Button("2", "b"), Button("3", "c"), Button("4", "d")).
		AddBackToMainButton().
		Build()

	require.Len(t, kb.InlineKeyboard, 3)
	assert.Len(t, kb.InlineKeyboard[0], 3)
	assert.Len(t, kb.InlineKeyboard[1], 1)
	assert.Equal(t, CallbackBackToMain, kb.InlineKeyboard[2][0].CallbackData)
}

func TestBuilder_RowSkipsEmpty(t *testing.T) {
	kb := NewBuilder().Row().Row(Button("x", "y")).Build()
	assert.Len(t, kb.InlineKeyboard, 1)
}

func TestPaginationButtons(t *testing.T) {
	assert.Nil(t, PaginationButtons(PrefixSymptomPage, 0, 1))

	first := PaginationButtons(PrefixSymptomPage, 0, 3)
	require.Len(t, first, 2)
	assert.Equal(t, CallbackNoop, first[0].CallbackData)
	assert.Equal(t, "sym_page:1", first[1].CallbackData)

	middle := PaginationButtons(PrefixSymptomPage, 1, 3)
	require.Len(t, middle, 3)
	assert.Equal(t, "sym_page:0", middle[0].CallbackData)
	assert.Equal(t, "📄 2/3", middle[1].Text)
}

func TestPageBounds(t *testing.T) {
	start, end, pages := PageBounds(17, 2, 8)
	assert.Equal(t, 16, start)
	assert.Equal(t, 17, end)
	assert.Equal(t, 3, pages)

	start, end, pages = PageBounds(0, 0, 8)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
	assert.Equal(t, 1, pages)

	start, _, _ = PageBounds(10, 9, 8)
	assert.Equal(t, 8, start, "page is clamped to the last one")
}
