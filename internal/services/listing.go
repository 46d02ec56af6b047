package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sequencer/internal/dto"
	"sequencer/internal/repositories"
	"sequencer/pkg/utils"
)

// ListingParams — запрос личного реестра: строка поиска, индекс
// активной вкладки и независимый курсор страницы на департамент.
// Всё это — состояние запроса, а не сессии.
type ListingParams struct {
	Query   string
	Tab     int
	Cursors map[uuid.UUID]uint64
}

type ListingServiceInterface interface {
	ListOwn(ctx context.Context, userID uuid.UUID, params ListingParams) (*dto.ListingDTO, error)
	ListDepartment(ctx context.Context, actorID, departmentID uuid.UUID, query string, page uint64) (*dto.DepartmentPageDTO, error)
}

type ListingService struct {
	emissionRepo repositories.EmissionRepositoryInterface
	authGate     AuthGateServiceInterface
	logger       *zap.Logger
}

func NewListingService(
	emissionRepo repositories.EmissionRepositoryInterface,
	authGate AuthGateServiceInterface,
	logger *zap.Logger,
) ListingServiceInterface {
	return &ListingService{emissionRepo: emissionRepo, authGate: authGate, logger: logger}
}

// ListOwn собирает по странице собственных эмиссий на каждый
// департамент пользователя.
func (s *ListingService) ListOwn(ctx context.Context, userID uuid.UUID, params ListingParams) (*dto.ListingDTO, error) {
	memberships, err := s.authGate.Memberships(ctx, userID)
	if err != nil {
		return nil, err
	}

	search := utils.ParseSearchQuery(params.Query)
	result := &dto.ListingDTO{
		Query:       search.Raw,
		Tab:         params.Tab,
		Departments: make([]dto.DepartmentPageDTO, 0, len(memberships)),
	}

	for _, m := range memberships {
		page := params.Cursors[m.DepartmentID]
		if page == 0 {
			page = 1
		}
		emissions, total, err := s.emissionRepo.ListByDepartment(ctx, repositories.EmissionListParams{
			DepartmentID: m.DepartmentID,
			UserID:       &userID,
			Search:       search,
			Limit:        utils.MemberPageSize,
			Offset:       utils.PageOffset(page, utils.MemberPageSize),
		})
		if err != nil {
			s.logger.Error("Ошибка получения реестра департамента",
				zap.String("departmentID", m.DepartmentID.String()), zap.Error(err))
			return nil, err
		}
		result.Departments = append(result.Departments, dto.DepartmentPageDTO{
			DepartmentID:   m.DepartmentID.String(),
			DepartmentName: m.DepartmentName,
			Emissions:      emissions,
			Total:          total,
			Page:           page,
			PageSize:       utils.MemberPageSize,
		})
	}
	return result, nil
}

// ListDepartment — административный реестр всего департамента:
// все эмиссии, расширенное сопоставление запроса (тип документа,
// год потока), страница из 12 записей.
func (s *ListingService) ListDepartment(ctx context.Context, actorID, departmentID uuid.UUID, query string, page uint64) (*dto.DepartmentPageDTO, error) {
	if err := s.authGate.Authorize(ctx, actorID, departmentID, true); err != nil {
		return nil, err
	}
	if page == 0 {
		page = 1
	}

	search := utils.ParseSearchQuery(query)
	emissions, total, err := s.emissionRepo.ListByDepartment(ctx, repositories.EmissionListParams{
		DepartmentID:  departmentID,
		Search:        search,
		MatchSequence: true,
		Limit:         utils.AdminPageSize,
		Offset:        utils.PageOffset(page, utils.AdminPageSize),
	})
	if err != nil {
		return nil, err
	}

	return &dto.DepartmentPageDTO{
		DepartmentID: departmentID.String(),
		Emissions:    emissions,
		Total:        total,
		Page:         page,
		PageSize:     utils.AdminPageSize,
	}, nil
}
