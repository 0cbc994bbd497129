package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/Freeeeeet/healthconnect_bot/internal/slots"
)

// Рисует сетку времени из JSON-ответа open-slots-by-date без бота и бэкенда.
//
//	go run ./cmd/render_slot_grid -in day.json -out grid.png
func main() {
	in := flag.String("in", "", "JSON file with a day group {workDate, slots:[...]}; sample data when empty")
	out := flag.String("out", "test_slot_grid.png", "output PNG path")
	mode := flag.String("mode", "open", "slot mode: open or booked")
	doctor := flag.String("doctor", "Dr. Sample", "doctor name for the header")
	unavailable := flag.Bool("unavailable", false, "render as if availability failed to load")
	flag.Parse()

	slotMode, err := slots.ParseMode(*mode)
	if err != nil {
		fail(err)
	}

	day, err := loadDay(*in)
	if err != nil {
		fail(err)
	}

	snap := slots.Unavailable(1, day.WorkDate)
	if !*unavailable {
		snap, err = slots.FromDay(1, day.WorkDate, slotMode, day)
		if err != nil {
			fail(err)
		}
	}

	data, err := common.GenerateSlotGridImage(common.SlotGridImage{
		Title:       *doctor,
		Date:        formatting.FormatDisplayDate(day.WorkDate),
		Cells:       slots.Grid(snap),
		Unavailable: *unavailable,
	})
	if err != nil {
		fail(fmt.Errorf("render: %w", err))
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fail(fmt.Errorf("write %s: %w", *out, err))
	}

	fmt.Printf("✅ Slot grid saved to %s (%d selectable of %d)\n", *out, slots.SelectableCount(snap), len(slots.Catalog()))
}

func loadDay(path string) (*model.DaySlots, error) {
	if path == "" {
		return sampleDay(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var day model.DaySlots
	if err := json.Unmarshal(raw, &day); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &day, nil
}

func sampleDay() *model.DaySlots {
	return &model.DaySlots{
		WorkDate: "2026-10-20",
		Slots: []model.ScheduleSlot{
			{ScheduleID: 101, SlotID: 1, StartTime: "09:00:00", EndTime: "09:30:00"},
			{ScheduleID: 102, SlotID: 4, StartTime: "10:30:00", EndTime: "11:00:00"},
			{ScheduleID: 103, SlotID: 8, StartTime: "14:00:00", EndTime: "14:30:00"},
			{ScheduleID: 104, SlotID: 11, StartTime: "15:30:00", EndTime: "16:00:00"},
		},
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "❌", err)
	os.Exit(1)
}
