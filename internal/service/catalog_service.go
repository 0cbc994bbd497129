package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"go.uber.org/zap"
)

const defaultSymptomsTTL = 10 * time.Minute

// CatalogAPI справочники клиники
type CatalogAPI interface {
	GetSymptoms(ctx context.Context) ([]model.Symptom, error)
	MatchDepartments(ctx context.Context, symptomIDs []int64) ([]model.DepartmentMatch, error)
	GetDoctorsByDepartment(ctx context.Context, deptID int64) ([]model.Doctor, error)
	GetDoctorProfile(ctx context.Context, doctorID int64) (*model.Doctor, error)
}

// CatalogService просмотр симптомов, отделений и врачей.
// Справочник симптомов кешируется на symptomsTTL.
type CatalogService struct {
	api    CatalogAPI
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	symptoms    []model.Symptom
	fetchedAt   time.Time
	symptomsTTL time.Duration
}

func NewCatalogService(api CatalogAPI, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		api:         api,
		logger:      logger,
		now:         time.Now,
		symptomsTTL: defaultSymptomsTTL,
	}
}

// Symptoms возвращает справочник симптомов, отсортированный по имени
func (s *CatalogService) Symptoms(ctx context.Context) ([]model.Symptom, error) {
	s.mu.Lock()
	if s.symptoms != nil && s.now().Sub(s.fetchedAt) < s.symptomsTTL {
		cached := append([]model.Symptom(nil), s.symptoms...)
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	symptoms, err := s.api.GetSymptoms(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(symptoms, func(i, j int) bool {
		return symptoms[i].Name < symptoms[j].Name
	})

	s.mu.Lock()
	s.symptoms = append([]model.Symptom(nil), symptoms...)
	s.fetchedAt = s.now()
	s.mu.Unlock()

	s.logger.Debug("Symptoms loaded", zap.Int("count", len(symptoms)))
	return symptoms, nil
}

// SymptomNames имена симптомов по ID в порядке ids; неизвестные ID пропускаются
func (s *CatalogService) SymptomNames(ctx context.Context, ids []int64) ([]string, error) {
	symptoms, err := s.Symptoms(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]string, len(symptoms))
	for _, sym := range symptoms {
		byID[sym.ID] = sym.Name
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// MatchDepartments подбирает отделения по симптомам: сначала с наибольшим числом совпадений
func (s *CatalogService) MatchDepartments(ctx context.Context, symptomIDs []int64) ([]model.DepartmentMatch, error) {
	if len(symptomIDs) == 0 {
		return nil, fmt.Errorf("match departments: no symptoms selected")
	}

	matches, err := s.api.MatchDepartments(ctx, symptomIDs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchedDiseases > matches[j].MatchedDiseases
	})
	return matches, nil
}

// Doctors врачи отделения: сначала доступные
func (s *CatalogService) Doctors(ctx context.Context, deptID int64) ([]model.Doctor, error) {
	doctors, err := s.api.GetDoctorsByDepartment(ctx, deptID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(doctors, func(i, j int) bool {
		return doctors[i].IsAvailable() && !doctors[j].IsAvailable()
	})
	return doctors, nil
}

// Doctor профиль врача
func (s *CatalogService) Doctor(ctx context.Context, doctorID int64) (*model.Doctor, error) {
	return s.api.GetDoctorProfile(ctx, doctorID)
}
