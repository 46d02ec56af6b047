package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sequencer/internal/entities"
	"sequencer/internal/repositories"
	"sequencer/pkg/utils"
)

type ReportServiceInterface interface {
	GetRegister(ctx context.Context, actorID, departmentID uuid.UUID, query string) (*entities.Department, []entities.ReportRow, error)
}

type ReportService struct {
	emissionRepo   repositories.EmissionRepositoryInterface
	departmentRepo repositories.DepartmentRepositoryInterface
	authGate       AuthGateServiceInterface
	logger         *zap.Logger
}

func NewReportService(
	emissionRepo repositories.EmissionRepositoryInterface,
	departmentRepo repositories.DepartmentRepositoryInterface,
	authGate AuthGateServiceInterface,
	logger *zap.Logger,
) ReportServiceInterface {
	return &ReportService{
		emissionRepo:   emissionRepo,
		departmentRepo: departmentRepo,
		authGate:       authGate,
		logger:         logger,
	}
}

// GetRegister — полный реестр департамента для выгрузки в Excel,
// с тем же поисковым фильтром, что и в административном листинге.
func (s *ReportService) GetRegister(ctx context.Context, actorID, departmentID uuid.UUID, query string) (*entities.Department, []entities.ReportRow, error) {
	if err := s.authGate.Authorize(ctx, actorID, departmentID, true); err != nil {
		return nil, nil, err
	}

	department, err := s.departmentRepo.FindDepartment(ctx, departmentID)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.emissionRepo.GetReportRows(ctx, departmentID, utils.ParseSearchQuery(query))
	if err != nil {
		s.logger.Error("Ошибка формирования реестра",
			zap.String("departmentID", departmentID.String()), zap.Error(err))
		return nil, nil, err
	}
	return department, rows, nil
}
