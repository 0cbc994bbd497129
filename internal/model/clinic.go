package model

import "fmt"

// Symptom симптом из справочника клиники
type Symptom struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DepartmentMatch отделение, подобранное по симптомам
type DepartmentMatch struct {
	DeptID          int64  `json:"deptId"`
	DeptName        string `json:"deptName"`
	MatchedDiseases int    `json:"matchedDiseases"`
}

// Doctor врач отделения
type Doctor struct {
	DoctorID        int64   `json:"doctorId"`
	FullName        string  `json:"fullName"`
	Degree          *string `json:"degree"`
	ExperienceYears *int    `json:"experienceYears"`
	DepartmentName  string  `json:"departmentName"`
	Available       *bool   `json:"available"`
}

// DisplayName возвращает имя врача или заглушку с ID
func (d *Doctor) DisplayName() string {
	if d.FullName != "" {
		return d.FullName
	}
	return fmt.Sprintf("Doctor #%d", d.DoctorID)
}

// Specialization возвращает степень/специализацию если указана
func (d *Doctor) Specialization() string {
	if d.Degree != nil {
		return *d.Degree
	}
	return ""
}

// IsAvailable сообщает есть ли у врача свободное время (nil считается "нет данных")
func (d *Doctor) IsAvailable() bool {
	return d.Available != nil && *d.Available
}
