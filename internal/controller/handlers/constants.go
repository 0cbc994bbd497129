package handlers

// Константы валидации формы записи
const (
	// Имя пациента
	PatientNameMinLength = 2
	PatientNameMaxLength = 100

	// Телефон: минимум цифр в номере
	PatientPhoneMinDigits = 5
	PatientPhoneMaxLength = 20

	// Причина визита
	ReasonMaxLength = 500
)

// Константы валидации регистрации
const (
	EmailMaxLength         = 255
	PasswordMinLength      = 6
	FullNameMaxLength      = 100
	CCCDLength             = 12
	RegisterPhoneMinLength = 10
)

// Ключи данных диалогов входа и регистрации
const (
	dataLoginEmail   = "login_email"
	dataRegistration = "registration"
)
