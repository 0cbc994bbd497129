package model

// ScheduleSlot одна единица записи, которую возвращает сервис доступности
type ScheduleSlot struct {
	ScheduleID int64  `json:"scheduleId"`
	SlotID     int64  `json:"slotId"`
	SlotName   string `json:"slotName"`
	WorkDate   string `json:"workDate,omitempty"` // YYYY-MM-DD
	StartTime  string `json:"startTime"`          // "08:00:00"
	EndTime    string `json:"endTime"`            // "09:00:00"
}

// DaySlots группа слотов за один рабочий день
type DaySlots struct {
	WorkDate string         `json:"workDate"`
	Slots    []ScheduleSlot `json:"slots"`
}
