package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sequencer/internal/dto"
	"sequencer/internal/services"
	"sequencer/pkg/utils"
)

type DocumentTypeController struct {
	documentTypeService services.DocumentTypeServiceInterface
	logger              *zap.Logger
}

func NewDocumentTypeController(documentTypeService services.DocumentTypeServiceInterface, logger *zap.Logger) *DocumentTypeController {
	return &DocumentTypeController{documentTypeService: documentTypeService, logger: logger}
}

func (c *DocumentTypeController) GetDocumentTypes(ctx echo.Context) error {
	types, err := c.documentTypeService.GetDocumentTypes(ctx.Request().Context())
	if err != nil {
		c.logger.Error("ошибка при получении типов документов", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, types, "Типы документов успешно получены", http.StatusOK, uint64(len(types)))
}

func (c *DocumentTypeController) CreateDocumentType(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.CreateDocumentTypeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	created, err := c.documentTypeService.CreateDocumentType(ctx.Request().Context(), actorID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, created, "Тип документа успешно создан", http.StatusCreated)
}
