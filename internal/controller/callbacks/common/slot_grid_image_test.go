package common

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/Freeeeeet/healthconnect_bot/internal/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlotGridImage(t *testing.T) {
	snap := slots.NewSnapshot(7, "2026-10-20", slots.ModeOpen)
	snap.Put("09:00 AM", 101)
	snap.Put("02:30 PM", 207)

	data, err := GenerateSlotGridImage(SlotGridImage{
		Title: "Dr. Lan",
		Date:  "Tue, 20 Oct 2026",
		Cells: slots.Grid(snap),
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, gridImageWidth, img.Bounds().Dx())

	// 12 меток в две колонки: 6 рядов
	expectedHeight := gridHeaderHeight + gridFooterHeight + int(6*(gridCellHeight+gridCellGap))
	assert.Equal(t, expectedHeight, img.Bounds().Dy())
}

func TestGenerateSlotGridImage_Unavailable(t *testing.T) {
	data, err := GenerateSlotGridImage(SlotGridImage{
		Title:       "Dr. Lan",
		Date:        "Tue, 20 Oct 2026",
		Cells:       slots.Grid(slots.Unavailable(7, "2026-10-20")),
		Unavailable: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestCellColor(t *testing.T) {
	assert.Equal(t, cellFreeColor, cellColor(slots.Cell{Selectable: true}, false))
	assert.Equal(t, cellTakenColor, cellColor(slots.Cell{}, false))
	assert.Equal(t, cellUnavailableColor, cellColor(slots.Cell{}, true))
}
