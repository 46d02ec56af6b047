package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sequencer/internal/dto"
	"sequencer/internal/repositories"
	apperrors "sequencer/pkg/errors"
	"sequencer/pkg/filestorage"
)

type fileTestEnv struct {
	fileSvc      EmissionFileServiceInterface
	emissionSvc  EmissionServiceInterface
	listingSvc   ListingServiceInterface
	sequenceRepo repositories.SequenceRepositoryInterface
}

func newFileTestEnv(t *testing.T) *fileTestEnv {
	t.Helper()
	nop := zap.NewNop()
	userRepo := repositories.NewUserRepository(testPool, nop)
	membershipRepo := repositories.NewMembershipRepository(testPool, nop)
	sequenceRepo := repositories.NewSequenceRepository(testPool, nop)
	emissionRepo := repositories.NewEmissionRepository(testPool, nop)
	fileRepo := repositories.NewEmissionFileRepository(testPool)
	authGate := NewAuthGateService(membershipRepo, newMemoryCache(), nop, time.Minute)

	storage, err := filestorage.NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	return &fileTestEnv{
		fileSvc:      NewEmissionFileService(fileRepo, emissionRepo, sequenceRepo, storage, authGate, nop),
		emissionSvc:  NewEmissionService(testPool, emissionRepo, sequenceRepo, userRepo, authGate, nop),
		listingSvc:   NewListingService(emissionRepo, authGate, nop),
		sequenceRepo: sequenceRepo,
	}
}

// makeFileHeader собирает multipart-заголовок в том же виде, в каком
// контроллер получает его из формы.
func makeFileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestEmissionFileService_UploadAndCount(t *testing.T) {
	truncateAll(t)
	env := newFileTestEnv(t)
	userID := seedUser(t, "emitter")
	departmentID, _ := seedDepartmentWithSequence(t, true)
	seedMember(t, userID, departmentID, false)

	created, err := env.emissionSvc.Create(context.Background(), userID, departmentID, dto.CreateEmissionDTO{
		Detail:      "Документ",
		Destination: "Адресат",
	})
	require.NoError(t, err)

	first, err := env.fileSvc.Upload(context.Background(), userID, created.ID, makeFileHeader(t, "скан.pdf", "pdf-содержимое"))
	require.NoError(t, err)
	assert.Equal(t, "скан.pdf", first.FileName)

	_, err = env.fileSvc.Upload(context.Background(), userID, created.ID, makeFileHeader(t, "опись.docx", "docx-содержимое"))
	require.NoError(t, err)

	files, total, err := env.fileSvc.GetFiles(context.Background(), userID, created.ID)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Equal(t, int64(2), total)

	listing, err := env.listingSvc.ListOwn(context.Background(), userID, ListingParams{})
	require.NoError(t, err)
	require.Len(t, listing.Departments, 1)
	assert.Equal(t, int64(2), listing.Departments[0].Emissions[0].ActiveFilesCount)

	// После открепления счётчик активных файлов уменьшается.
	err = env.fileSvc.Delete(context.Background(), userID, uuid.MustParse(first.ID))
	require.NoError(t, err)

	files, total, err = env.fileSvc.GetFiles(context.Background(), userID, created.ID)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, int64(1), total)

	listing, err = env.listingSvc.ListOwn(context.Background(), userID, ListingParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), listing.Departments[0].Emissions[0].ActiveFilesCount)
}

func TestEmissionFileService_Upload_SequenceClosed(t *testing.T) {
	truncateAll(t)
	env := newFileTestEnv(t)
	userID := seedUser(t, "emitter")
	departmentID, sequenceID := seedDepartmentWithSequence(t, true)
	seedMember(t, userID, departmentID, false)

	created, err := env.emissionSvc.Create(context.Background(), userID, departmentID, dto.CreateEmissionDTO{
		Detail:      "Документ",
		Destination: "Адресат",
	})
	require.NoError(t, err)

	_, err = env.sequenceRepo.ToggleCanEmit(context.Background(), sequenceID)
	require.NoError(t, err)

	_, err = env.fileSvc.Upload(context.Background(), userID, created.ID, makeFileHeader(t, "скан.pdf", "pdf-содержимое"))
	assert.ErrorIs(t, err, apperrors.ErrSequenceClosed)
}

func TestEmissionFileService_Delete_SequenceClosed(t *testing.T) {
	truncateAll(t)
	env := newFileTestEnv(t)
	userID := seedUser(t, "emitter")
	departmentID, sequenceID := seedDepartmentWithSequence(t, true)
	seedMember(t, userID, departmentID, false)

	created, err := env.emissionSvc.Create(context.Background(), userID, departmentID, dto.CreateEmissionDTO{
		Detail:      "Документ",
		Destination: "Адресат",
	})
	require.NoError(t, err)

	uploaded, err := env.fileSvc.Upload(context.Background(), userID, created.ID, makeFileHeader(t, "скан.pdf", "pdf-содержимое"))
	require.NoError(t, err)

	_, err = env.sequenceRepo.ToggleCanEmit(context.Background(), sequenceID)
	require.NoError(t, err)

	err = env.fileSvc.Delete(context.Background(), userID, uuid.MustParse(uploaded.ID))
	assert.ErrorIs(t, err, apperrors.ErrSequenceClosed)

	// Файл остался прикреплённым.
	_, total, err := env.fileSvc.GetFiles(context.Background(), userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestEmissionFileService_Authorization(t *testing.T) {
	truncateAll(t)
	env := newFileTestEnv(t)
	userID := seedUser(t, "emitter")
	outsiderID := seedUser(t, "outsider")
	departmentID, _ := seedDepartmentWithSequence(t, true)
	seedMember(t, userID, departmentID, false)

	created, err := env.emissionSvc.Create(context.Background(), userID, departmentID, dto.CreateEmissionDTO{
		Detail:      "Документ",
		Destination: "Адресат",
	})
	require.NoError(t, err)

	// Для не-члена департамента эмиссия не существует.
	_, _, err = env.fileSvc.GetFiles(context.Background(), outsiderID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = env.fileSvc.Upload(context.Background(), outsiderID, created.ID, makeFileHeader(t, "скан.pdf", "pdf-содержимое"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
