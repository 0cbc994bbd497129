package common

import (
	"bytes"
	"image/color"
	"strings"

	"github.com/Freeeeeet/healthconnect_bot/internal/slots"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	gridImageWidth   = 720
	gridHeaderHeight = 90
	gridFooterHeight = 50
	gridColumns      = 2
	gridCellHeight   = 56.0
	gridCellGap      = 12.0
	gridPaddingX     = 40.0
	cellBorderRadius = 8.0
	cellShadowOffset = 3.0
)

// Цветовая схема
var (
	gridBgColor      = color.RGBA{245, 246, 248, 255}
	gridTextColor    = color.RGBA{60, 65, 70, 255}
	gridSubtextColor = color.RGBA{110, 115, 120, 255}

	cellFreeColor        = color.RGBA{133, 193, 85, 230}
	cellTakenColor       = color.RGBA{220, 220, 220, 230}
	cellUnavailableColor = color.RGBA{255, 182, 193, 230}
	cellTextColor        = color.RGBA{20, 24, 28, 230}
	cellMutedTextColor   = color.RGBA{120, 120, 120, 255}
	cellShadowColor      = color.RGBA{0, 0, 0, 20}
)

// SlotGridImage данные для рисования сетки времени
type SlotGridImage struct {
	Title       string // имя врача
	Date        string // отображаемая дата
	Cells       []slots.Cell
	Unavailable bool // сервис доступности не ответил
}

// GenerateSlotGridImage рисует сетку времени врача на дату в PNG.
// Доступное время выделяется цветом, занятое и недоступное приглушено.
func GenerateSlotGridImage(grid SlotGridImage) ([]byte, error) {
	rows := (len(grid.Cells) + gridColumns - 1) / gridColumns
	height := gridHeaderHeight + gridFooterHeight + int(float64(rows)*(gridCellHeight+gridCellGap))

	dc := gg.NewContext(gridImageWidth, height)
	dc.SetColor(gridBgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	drawGridHeader(dc, grid)
	drawGridCells(dc, grid)
	drawGridLegend(dc, float64(height-gridFooterHeight))

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawGridHeader рисует имя врача и дату
func drawGridHeader(dc *gg.Context, grid SlotGridImage) {
	dc.SetColor(gridTextColor)
	dc.DrawStringAnchored(strings.ToUpper(grid.Title), gridImageWidth/2, 30, 0.5, 0.5)

	sub := grid.Date
	if grid.Unavailable {
		sub += "  -  availability could not be loaded"
	}
	dc.SetColor(gridSubtextColor)
	dc.DrawStringAnchored(sub, gridImageWidth/2, 55, 0.5, 0.5)
}

// drawGridCells рисует ячейки по колонкам: утро слева, день справа
func drawGridCells(dc *gg.Context, grid SlotGridImage) {
	cellWidth := (gridImageWidth - 2*gridPaddingX - gridCellGap*(gridColumns-1)) / gridColumns
	perColumn := (len(grid.Cells) + gridColumns - 1) / gridColumns

	for i, cell := range grid.Cells {
		col := i / perColumn
		row := i % perColumn

		x := gridPaddingX + float64(col)*(cellWidth+gridCellGap)
		y := float64(gridHeaderHeight) + float64(row)*(gridCellHeight+gridCellGap)

		drawGridCell(dc, cell, grid.Unavailable, x, y, cellWidth)
	}
}

// drawGridCell рисует одну ячейку
func drawGridCell(dc *gg.Context, cell slots.Cell, unavailable bool, x, y, width float64) {
	fill := cellColor(cell, unavailable)

	// Тень
	dc.SetColor(cellShadowColor)
	dc.DrawRoundedRectangle(x+cellShadowOffset, y+cellShadowOffset, width, gridCellHeight, cellBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x, y, width, gridCellHeight, cellBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y, width, gridCellHeight, cellBorderRadius)
	dc.Stroke()

	label := string(cell.Label)
	status := "available"
	textColor := cellTextColor
	if !cell.Selectable {
		status = "taken"
		if unavailable {
			status = "unavailable"
		}
		textColor = cellMutedTextColor
	}

	dc.SetColor(textColor)
	dc.DrawStringAnchored(label, x+16, y+gridCellHeight/2, 0, 0.5)
	dc.DrawStringAnchored(status, x+width-16, y+gridCellHeight/2, 1, 0.5)
}

// cellColor возвращает цвет ячейки по её доступности
func cellColor(cell slots.Cell, unavailable bool) color.RGBA {
	switch {
	case cell.Selectable:
		return cellFreeColor
	case unavailable:
		return cellUnavailableColor
	default:
		return cellTakenColor
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawGridLegend рисует легенду внизу
func drawGridLegend(dc *gg.Context, top float64) {
	items := []struct {
		Label string
		Clr   color.Color
	}{
		{"Available", cellFreeColor},
		{"Taken", cellTakenColor},
		{"Unavailable", cellUnavailableColor},
	}

	boxW, boxH := 20.0, 14.0
	x := gridPaddingX
	y := top + 18

	for _, item := range items {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(gridSubtextColor)
		dc.DrawStringAnchored(item.Label, x+boxW+8, y+boxH/2, 0, 0.5)
		x += 160
	}
}
