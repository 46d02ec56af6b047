package services

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sequencer/internal/dto"
	"sequencer/internal/entities"
	"sequencer/internal/repositories"
	apperrors "sequencer/pkg/errors"
	"sequencer/pkg/filestorage"
)

const emissionFilesPrefix = "emissions"

type EmissionFileServiceInterface interface {
	Upload(ctx context.Context, actorID, emissionID uuid.UUID, fileHeader *multipart.FileHeader) (*dto.EmissionFileDTO, error)
	GetFiles(ctx context.Context, actorID, emissionID uuid.UUID) ([]dto.EmissionFileDTO, int64, error)
	Download(ctx context.Context, actorID, fileID uuid.UUID) (*entities.EmissionFile, io.ReadCloser, error)
	Delete(ctx context.Context, actorID, fileID uuid.UUID) error
}

type EmissionFileService struct {
	fileRepo     repositories.EmissionFileRepositoryInterface
	emissionRepo repositories.EmissionRepositoryInterface
	sequenceRepo repositories.SequenceRepositoryInterface
	fileStorage  filestorage.FileStorageInterface
	authGate     AuthGateServiceInterface
	logger       *zap.Logger
}

func NewEmissionFileService(
	fileRepo repositories.EmissionFileRepositoryInterface,
	emissionRepo repositories.EmissionRepositoryInterface,
	sequenceRepo repositories.SequenceRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	authGate AuthGateServiceInterface,
	logger *zap.Logger,
) EmissionFileServiceInterface {
	return &EmissionFileService{
		fileRepo:     fileRepo,
		emissionRepo: emissionRepo,
		sequenceRepo: sequenceRepo,
		fileStorage:  fileStorage,
		authGate:     authGate,
		logger:       logger,
	}
}

// authorizedEmission — общий вход файловых операций: эмиссия должна
// существовать и принадлежать департаменту, видимому пользователю.
func (s *EmissionFileService) authorizedEmission(ctx context.Context, actorID, emissionID uuid.UUID) (*entities.Emission, error) {
	emission, err := s.emissionRepo.FindEmission(ctx, emissionID)
	if err != nil {
		return nil, err
	}
	if err := s.authGate.Authorize(ctx, actorID, emission.DepartmentID, false); err != nil {
		return nil, err
	}
	return emission, nil
}

func (s *EmissionFileService) requireEmittable(ctx context.Context, sequenceID uuid.UUID) error {
	sequence, err := s.sequenceRepo.FindSequence(ctx, sequenceID)
	if err != nil {
		return err
	}
	if !sequence.CanEmit {
		return apperrors.ErrSequenceClosed
	}
	return nil
}

func toEmissionFileDTO(f entities.EmissionFile) dto.EmissionFileDTO {
	return dto.EmissionFileDTO{
		ID:       f.ID.String(),
		FileName: f.FileName,
		FileType: f.FileType,
		FileSize: f.FileSize,
		URL:      "/files/" + f.ID.String() + "/download",
	}
}

func (s *EmissionFileService) Upload(ctx context.Context, actorID, emissionID uuid.UUID, fileHeader *multipart.FileHeader) (*dto.EmissionFileDTO, error) {
	emission, err := s.authorizedEmission(ctx, actorID, emissionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireEmittable(ctx, emission.SequenceID); err != nil {
		return nil, err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	filePath, err := s.fileStorage.Save(src, fileHeader.Filename, emissionFilesPrefix)
	if err != nil {
		s.logger.Error("Ошибка сохранения файла на диск", zap.Error(err))
		return nil, err
	}

	created, err := s.fileRepo.Create(ctx, entities.EmissionFile{
		EmissionID: emissionID,
		UserID:     actorID,
		FileName:   fileHeader.Filename,
		FilePath:   filePath,
		FileType:   fileHeader.Header.Get("Content-Type"),
		FileSize:   fileHeader.Size,
	})
	if err != nil {
		// Запись не создана — подчищаем осиротевший файл.
		_ = s.fileStorage.Delete(filePath)
		s.logger.Error("Ошибка создания записи о файле", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Файл прикреплён к эмиссии",
		zap.String("emissionID", emissionID.String()), zap.String("fileName", created.FileName))
	result := toEmissionFileDTO(*created)
	return &result, nil
}

func (s *EmissionFileService) GetFiles(ctx context.Context, actorID, emissionID uuid.UUID) ([]dto.EmissionFileDTO, int64, error) {
	if _, err := s.authorizedEmission(ctx, actorID, emissionID); err != nil {
		return nil, 0, err
	}

	files, err := s.fileRepo.FindActiveByEmission(ctx, emissionID)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.fileRepo.CountActive(ctx, emissionID)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.EmissionFileDTO, 0, len(files))
	for _, f := range files {
		result = append(result, toEmissionFileDTO(f))
	}
	return result, total, nil
}

func (s *EmissionFileService) Download(ctx context.Context, actorID, fileID uuid.UUID) (*entities.EmissionFile, io.ReadCloser, error) {
	file, err := s.fileRepo.FindFile(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.authorizedEmission(ctx, actorID, file.EmissionID); err != nil {
		return nil, nil, err
	}

	reader, err := s.fileStorage.Open(file.FilePath)
	if err != nil {
		s.logger.Error("Файл отсутствует на диске",
			zap.String("fileID", fileID.String()), zap.Error(err))
		return nil, nil, apperrors.ErrNotFound
	}
	return file, reader, nil
}

func (s *EmissionFileService) Delete(ctx context.Context, actorID, fileID uuid.UUID) error {
	file, err := s.fileRepo.FindFile(ctx, fileID)
	if err != nil {
		return err
	}
	emission, err := s.authorizedEmission(ctx, actorID, file.EmissionID)
	if err != nil {
		return err
	}
	if err := s.requireEmittable(ctx, emission.SequenceID); err != nil {
		return err
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return err
	}
	if err := s.fileStorage.Delete(file.FilePath); err != nil {
		s.logger.Warn("Запись удалена, но файл на диске остался",
			zap.String("fileID", fileID.String()), zap.Error(err))
	}

	s.logger.Info("Файл откреплён от эмиссии",
		zap.String("emissionID", file.EmissionID.String()), zap.String("fileName", file.FileName))
	return nil
}
