package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sequencer/internal/dto"
	"sequencer/internal/entities"
	"sequencer/internal/repositories"
	apperrors "sequencer/pkg/errors"
	"sequencer/pkg/utils"
)

type EmissionServiceInterface interface {
	Create(ctx context.Context, actorID, departmentID uuid.UUID, payload dto.CreateEmissionDTO) (*entities.Emission, error)
	CreateBatch(ctx context.Context, actorID, departmentID uuid.UUID, payload dto.CreateEmissionBatchDTO) ([]entities.Emission, error)
	Edit(ctx context.Context, actorID, emissionID uuid.UUID, payload dto.UpdateEmissionDTO) (*entities.Emission, error)
	Receive(ctx context.Context, actorID, emissionID uuid.UUID) (*entities.Emission, error)
	Unreceive(ctx context.Context, actorID, emissionID uuid.UUID) (*entities.Emission, error)
}

type EmissionService struct {
	pool         *pgxpool.Pool
	emissionRepo repositories.EmissionRepositoryInterface
	sequenceRepo repositories.SequenceRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	authGate     AuthGateServiceInterface
	logger       *zap.Logger
}

func NewEmissionService(
	pool *pgxpool.Pool,
	emissionRepo repositories.EmissionRepositoryInterface,
	sequenceRepo repositories.SequenceRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	authGate AuthGateServiceInterface,
	logger *zap.Logger,
) EmissionServiceInterface {
	return &EmissionService{
		pool:         pool,
		emissionRepo: emissionRepo,
		sequenceRepo: sequenceRepo,
		userRepo:     userRepo,
		authGate:     authGate,
		logger:       logger,
	}
}

// parseEmissionDate: пустая строка означает сегодняшнюю дату.
func parseEmissionDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(utils.SearchDateLayout, s)
	if err != nil {
		return time.Time{}, apperrors.NewInvalidInputError("неверный формат даты: %s", s)
	}
	return d, nil
}

// emittableSequence находит открытый поток нумерации департамента.
// Его отсутствие для вызывающего неотличимо от закрытой нумерации.
func (s *EmissionService) emittableSequence(ctx context.Context, departmentID uuid.UUID) (*entities.Sequence, error) {
	sequence, err := s.sequenceRepo.FindEmittable(ctx, departmentID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.ErrSequenceClosed
		}
		return nil, err
	}
	return sequence, nil
}

func (s *EmissionService) Create(ctx context.Context, actorID, departmentID uuid.UUID, payload dto.CreateEmissionDTO) (*entities.Emission, error) {
	if err := s.authGate.Authorize(ctx, actorID, departmentID, false); err != nil {
		return nil, err
	}

	sequence, err := s.emittableSequence(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	date, err := parseEmissionDate(payload.Date)
	if err != nil {
		return nil, err
	}

	var created *entities.Emission
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		number, err := s.sequenceRepo.Reserve(ctx, tx, sequence.ID, 1)
		if err != nil {
			return err
		}
		created, err = s.emissionRepo.CreateInTx(ctx, tx, entities.Emission{
			SequenceID:  sequence.ID,
			Number:      number,
			Detail:      payload.Detail,
			Destination: payload.Destination,
			UserID:      actorID,
			Date:        date,
		})
		return err
	})
	if err != nil {
		s.logger.Error("Ошибка создания эмиссии",
			zap.String("departmentID", departmentID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Эмиссия создана",
		zap.String("sequenceID", sequence.ID.String()), zap.Int64("number", created.Number))
	return s.emissionRepo.FindEmission(ctx, created.ID)
}

func (s *EmissionService) CreateBatch(ctx context.Context, actorID, departmentID uuid.UUID, payload dto.CreateEmissionBatchDTO) ([]entities.Emission, error) {
	if payload.Quantity < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}

	// От чьего имени эмитируются документы: по умолчанию от автора
	// запроса; назначить другого пользователя может только администратор.
	emitterID := actorID
	if payload.UserID != "" {
		requested, err := uuid.Parse(payload.UserID)
		if err != nil {
			return nil, apperrors.ErrBadRequest
		}
		if requested != actorID {
			if err := s.authGate.Authorize(ctx, actorID, departmentID, true); err != nil {
				return nil, err
			}
			if _, err := s.userRepo.FindUser(ctx, requested); err != nil {
				return nil, err
			}
			emitterID = requested
		}
	}
	if err := s.authGate.Authorize(ctx, actorID, departmentID, false); err != nil {
		return nil, err
	}

	sequence, err := s.emittableSequence(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	date, err := parseEmissionDate(payload.Date)
	if err != nil {
		return nil, err
	}

	batchID := uuid.New()
	quantity := int64(payload.Quantity)
	created := make([]entities.Emission, 0, payload.Quantity)

	// Резервирование диапазона и вставка всех записей — одна
	// транзакция: либо весь пакет, либо откат счётчика.
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		start, err := s.sequenceRepo.Reserve(ctx, tx, sequence.ID, quantity)
		if err != nil {
			return err
		}
		for i := int64(0); i < quantity; i++ {
			e, err := s.emissionRepo.CreateInTx(ctx, tx, entities.Emission{
				SequenceID:  sequence.ID,
				Number:      start + i,
				Detail:      fmt.Sprintf("%d/%d: %s (%s)", i+1, quantity, payload.Detail, batchID),
				Destination: payload.Destination,
				UserID:      emitterID,
				Batch:       uuid.NullUUID{UUID: batchID, Valid: true},
				Date:        date,
			})
			if err != nil {
				return err
			}
			created = append(created, *e)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Ошибка создания пакета эмиссий",
			zap.String("departmentID", departmentID.String()),
			zap.Int("quantity", payload.Quantity), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Пакет эмиссий создан",
		zap.String("batch", batchID.String()),
		zap.Int64("from", created[0].Number), zap.Int64("to", created[len(created)-1].Number))
	return created, nil
}

func (s *EmissionService) Edit(ctx context.Context, actorID, emissionID uuid.UUID, payload dto.UpdateEmissionDTO) (*entities.Emission, error) {
	emission, err := s.emissionRepo.FindEmission(ctx, emissionID)
	if err != nil {
		return nil, err
	}
	if err := s.authGate.Authorize(ctx, actorID, emission.DepartmentID, false); err != nil {
		return nil, err
	}
	if emission.UserID != actorID {
		return nil, apperrors.ErrForbidden
	}
	if emission.Received {
		return nil, apperrors.ErrAlreadyReceived
	}

	sequence, err := s.sequenceRepo.FindSequence(ctx, emission.SequenceID)
	if err != nil {
		return nil, err
	}
	if !sequence.CanEmit {
		return nil, apperrors.ErrSequenceClosed
	}

	var date *time.Time
	if payload.Date != nil {
		parsed, err := parseEmissionDate(*payload.Date)
		if err != nil {
			return nil, err
		}
		date = &parsed
	}

	updated, err := s.emissionRepo.UpdateEmission(ctx, emissionID, payload.Detail, payload.Destination, date)
	if err != nil {
		s.logger.Error("Ошибка редактирования эмиссии",
			zap.String("emissionID", emissionID.String()), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (s *EmissionService) Receive(ctx context.Context, actorID, emissionID uuid.UUID) (*entities.Emission, error) {
	emission, err := s.emissionRepo.FindEmission(ctx, emissionID)
	if err != nil {
		return nil, err
	}
	if err := s.authGate.Authorize(ctx, actorID, emission.DepartmentID, false); err != nil {
		return nil, err
	}
	if emission.Received {
		return nil, apperrors.ErrAlreadyReceived
	}

	sequence, err := s.sequenceRepo.FindSequence(ctx, emission.SequenceID)
	if err != nil {
		return nil, err
	}
	if !sequence.CanEmit {
		return nil, apperrors.ErrSequenceClosed
	}

	if err := s.emissionRepo.Receive(ctx, emissionID, actorID, time.Now()); err != nil {
		return nil, err
	}
	s.logger.Info("Эмиссия отмечена полученной",
		zap.String("emissionID", emissionID.String()), zap.String("receiver", actorID.String()))
	return s.emissionRepo.FindEmission(ctx, emissionID)
}

func (s *EmissionService) Unreceive(ctx context.Context, actorID, emissionID uuid.UUID) (*entities.Emission, error) {
	emission, err := s.emissionRepo.FindEmission(ctx, emissionID)
	if err != nil {
		return nil, err
	}
	if err := s.authGate.Authorize(ctx, actorID, emission.DepartmentID, true); err != nil {
		return nil, err
	}
	if !emission.Received {
		return nil, apperrors.ErrNotReceived
	}

	sequence, err := s.sequenceRepo.FindSequence(ctx, emission.SequenceID)
	if err != nil {
		return nil, err
	}
	if !sequence.CanEmit {
		return nil, apperrors.ErrSequenceClosed
	}

	if err := s.emissionRepo.Unreceive(ctx, emissionID); err != nil {
		return nil, err
	}
	s.logger.Info("Отметка о получении снята", zap.String("emissionID", emissionID.String()))
	return s.emissionRepo.FindEmission(ctx, emissionID)
}
