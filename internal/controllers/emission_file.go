package controllers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sequencer/internal/services"
	"sequencer/pkg/utils"
)

const maxUploadSize = 20 << 20 // 20 МБ на файл

type EmissionFileController struct {
	fileService services.EmissionFileServiceInterface
	logger      *zap.Logger
}

func NewEmissionFileController(fileService services.EmissionFileServiceInterface, logger *zap.Logger) *EmissionFileController {
	return &EmissionFileController{fileService: fileService, logger: logger}
}

func (c *EmissionFileController) Upload(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	emissionID, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "файл не передан в поле 'file'"))
	}
	if fileHeader.Size > maxUploadSize {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "файл слишком большой"))
	}

	uploaded, err := c.fileService.Upload(ctx.Request().Context(), actorID, emissionID, fileHeader)
	if err != nil {
		c.logger.Error("ошибка при загрузке файла",
			zap.String("emissionID", emissionID.String()), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, uploaded, "Файл успешно прикреплён", http.StatusCreated)
}

func (c *EmissionFileController) GetFiles(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	emissionID, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	files, total, err := c.fileService.GetFiles(ctx.Request().Context(), actorID, emissionID)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, files, "Файлы успешно получены", http.StatusOK, uint64(total))
}

// Download отдаёт содержимое файла с исходным именем.
func (c *EmissionFileController) Download(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	fileID, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	file, reader, err := c.fileService.Download(ctx.Request().Context(), actorID, fileID)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	defer reader.Close()

	contentType := file.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	return ctx.Stream(http.StatusOK, contentType, reader)
}

func (c *EmissionFileController) Delete(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	fileID, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.fileService.Delete(ctx.Request().Context(), actorID, fileID); err != nil {
		c.logger.Error("ошибка при удалении файла", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, nil, "Файл успешно удалён", http.StatusOK)
}
