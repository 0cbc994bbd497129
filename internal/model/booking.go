package model

// BookingDraft данные формы записи, собираемые в диалоге
type BookingDraft struct {
	DoctorID     int64  `json:"doctor_id"`
	Date         string `json:"date"` // YYYY-MM-DD
	TimeLabel    string `json:"time_label"`
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone"`
	Reason       string `json:"reason"`
}

// BookingContext отображаемые данные выбранного врача, отделения и симптомов
type BookingContext struct {
	DoctorName     string
	Specialization string
	DepartmentName string
	SymptomNames   []string
}
