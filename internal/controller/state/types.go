package state

import "time"

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Состояния формы записи
	StateEnterPatientName  UserState = "enter_patient_name"
	StateEnterPatientPhone UserState = "enter_patient_phone"
	StateEnterReason       UserState = "enter_reason"

	// Состояния входа
	StateLoginEmail    UserState = "login_email"
	StateLoginPassword UserState = "login_password"

	// Состояния регистрации
	StateRegisterEmail    UserState = "register_email"
	StateRegisterPassword UserState = "register_password"
	StateRegisterConfirm  UserState = "register_confirm_password"
	StateRegisterFullName UserState = "register_full_name"
	StateRegisterCCCD     UserState = "register_cccd"
	StateRegisterPhone    UserState = "register_phone"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State        UserState
	Data         map[string]interface{} // Временные данные для текущего диалога
	LastActivity time.Time
}
