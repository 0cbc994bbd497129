package callbacktypes

import (
	"time"

	"github.com/Freeeeeet/healthconnect_bot/internal/history"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/Freeeeeet/healthconnect_bot/internal/service"
	"go.uber.org/zap"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

// Состояния формы записи, в которые переводят callback handlers.
// Значения совпадают с state.UserState.
const (
	StateNone              UserState = ""
	StateEnterPatientName  UserState = "enter_patient_name"
	StateEnterPatientPhone UserState = "enter_patient_phone"
	StateEnterReason       UserState = "enter_reason"
)

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	ClearState(telegramID int64)
	GetState(telegramID int64) UserState
	SetState(telegramID int64, state UserState)
	SetData(telegramID int64, key string, value interface{})
	GetData(telegramID int64, key string) (interface{}, bool)
	GetAllData(telegramID int64) map[string]interface{}
}

// HistoryFactory возвращает историю записей пользователя бота
type HistoryFactory func(telegramID int64) *history.Store

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	Catalog      *service.CatalogService
	Availability *service.AvailabilityService
	Booking      *service.BookingService
	Users        *service.UserService
	History      HistoryFactory
	StateManager StateManager
	Logger       *zap.Logger

	// GridImages включает отправку PNG сетки слотов
	GridImages bool
	// Now текущее время; подменяется в тестах
	Now func() time.Time
}

// Clock возвращает текущее время с учётом подмены
func (h *Handler) Clock() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// FlowKey ключ данных диалога под которым хранится BookingFlow
const FlowKey = "booking_flow"

// BookingFlow состояние одного потока записи: симптомы, отделение, врач, форма.
// Хранится в данных диалога по значению; Selection общий указатель для защиты от устаревших ответов.
type BookingFlow struct {
	SymptomIDs     []int64
	SymptomPage    int
	Departments    []model.DepartmentMatch
	DepartmentID   int64
	DepartmentName string
	Doctors        []model.Doctor
	Doctor         *model.Doctor
	Draft          model.BookingDraft
	Selection      *service.SlotSelection
}

// HasSymptom сообщает выбран ли симптом
func (f *BookingFlow) HasSymptom(id int64) bool {
	for _, s := range f.SymptomIDs {
		if s == id {
			return true
		}
	}
	return false
}

// ToggleSymptom добавляет или убирает симптом из выбора
func (f *BookingFlow) ToggleSymptom(id int64) {
	for i, s := range f.SymptomIDs {
		if s == id {
			f.SymptomIDs = append(f.SymptomIDs[:i:i], f.SymptomIDs[i+1:]...)
			return
		}
	}
	f.SymptomIDs = append(f.SymptomIDs, id)
}

// Department ищет подобранное отделение по ID
func (f *BookingFlow) Department(id int64) (model.DepartmentMatch, bool) {
	for _, d := range f.Departments {
		if d.DeptID == id {
			return d, true
		}
	}
	return model.DepartmentMatch{}, false
}

// FindDoctor ищет врача в загруженном списке отделения
func (f *BookingFlow) FindDoctor(id int64) (model.Doctor, bool) {
	for _, d := range f.Doctors {
		if d.DoctorID == id {
			return d, true
		}
	}
	return model.Doctor{}, false
}

// SelectDoctor запоминает врача и сбрасывает дату и время
func (f *BookingFlow) SelectDoctor(doctor model.Doctor) {
	d := doctor
	f.Doctor = &d
	f.Draft.DoctorID = doctor.DoctorID
	f.Draft.Date = ""
	f.Draft.TimeLabel = ""
	if f.Selection == nil {
		f.Selection = &service.SlotSelection{}
	}
}

// SelectDate запоминает дату и сбрасывает выбранное время
func (f *BookingFlow) SelectDate(date string) {
	f.Draft.Date = date
	f.Draft.TimeLabel = ""
	if f.Selection == nil {
		f.Selection = &service.SlotSelection{}
	}
	f.Selection.Select(f.Draft.DoctorID, date)
}

// Context отображаемые данные для сборки записи
func (f *BookingFlow) Context(symptomNames []string) model.BookingContext {
	bctx := model.BookingContext{
		DepartmentName: f.DepartmentName,
		SymptomNames:   symptomNames,
	}
	if f.Doctor != nil {
		bctx.DoctorName = f.Doctor.DisplayName()
		bctx.Specialization = f.Doctor.Specialization()
		if bctx.DepartmentName == "" {
			bctx.DepartmentName = f.Doctor.DepartmentName
		}
	}
	return bctx
}
