package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sequencer/internal/dto"
	"sequencer/internal/services"
	"sequencer/pkg/utils"
)

type SequenceController struct {
	sequenceService services.SequenceServiceInterface
	logger          *zap.Logger
}

func NewSequenceController(sequenceService services.SequenceServiceInterface, logger *zap.Logger) *SequenceController {
	return &SequenceController{sequenceService: sequenceService, logger: logger}
}

func (c *SequenceController) GetSequences(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	departmentID, err := parseUUIDParam(ctx, "departmentID")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	sequences, err := c.sequenceService.GetSequences(ctx.Request().Context(), actorID, departmentID)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, sequences, "Потоки нумерации успешно получены", http.StatusOK, uint64(len(sequences)))
}

func (c *SequenceController) CreateSequence(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	departmentID, err := parseUUIDParam(ctx, "departmentID")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.CreateSequenceDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	created, err := c.sequenceService.CreateSequence(ctx.Request().Context(), actorID, departmentID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, created, "Поток нумерации успешно создан", http.StatusCreated)
}

func (c *SequenceController) ToggleCanEmit(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	sequenceID, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	toggled, err := c.sequenceService.ToggleCanEmit(ctx.Request().Context(), actorID, sequenceID)
	if err != nil {
		c.logger.Error("ошибка при переключении флага эмиссии", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, toggled, "Флаг эмиссии переключён", http.StatusOK)
}
