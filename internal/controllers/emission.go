package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sequencer/internal/dto"
	"sequencer/internal/services"
	"sequencer/pkg/utils"
)

type EmissionController struct {
	emissionService services.EmissionServiceInterface
	listingService  services.ListingServiceInterface
	logger          *zap.Logger
}

func NewEmissionController(
	emissionService services.EmissionServiceInterface,
	listingService services.ListingServiceInterface,
	logger *zap.Logger,
) *EmissionController {
	return &EmissionController{
		emissionService: emissionService,
		listingService:  listingService,
		logger:          logger,
	}
}

// ListOwn — личный реестр: собственные эмиссии по всем департаментам
// пользователя, с независимыми курсорами page_<departmentID>.
func (c *EmissionController) ListOwn(ctx echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	query := ctx.Request().URL.Query()
	listing, err := c.listingService.ListOwn(ctx.Request().Context(), userID, services.ListingParams{
		Query:   query.Get("q"),
		Tab:     utils.ParseTab(query),
		Cursors: utils.ParsePageCursors(query),
	})
	if err != nil {
		c.logger.Error("ошибка при получении личного реестра", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, listing, "Реестр успешно получен", http.StatusOK)
}

func (c *EmissionController) ListDepartment(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	departmentID, err := parseUUIDParam(ctx, "departmentID")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	page, err := strconv.ParseUint(ctx.QueryParam("page"), 10, 64)
	if err != nil {
		page = 1
	}

	listing, err := c.listingService.ListDepartment(ctx.Request().Context(), actorID, departmentID, ctx.QueryParam("q"), page)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, listing, "Реестр департамента успешно получен", http.StatusOK, listing.Total)
}

func (c *EmissionController) Create(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	departmentID, err := parseUUIDParam(ctx, "departmentID")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.CreateEmissionDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	created, err := c.emissionService.Create(ctx.Request().Context(), actorID, departmentID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, created, "Эмиссия успешно создана", http.StatusCreated)
}

func (c *EmissionController) CreateBatch(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	departmentID, err := parseUUIDParam(ctx, "departmentID")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.CreateEmissionBatchDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	created, err := c.emissionService.CreateBatch(ctx.Request().Context(), actorID, departmentID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, created, "Пакет эмиссий успешно создан", http.StatusCreated, uint64(len(created)))
}

func (c *EmissionController) Edit(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	emissionID, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateEmissionDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	updated, err := c.emissionService.Edit(ctx.Request().Context(), actorID, emissionID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, updated, "Эмиссия успешно обновлена", http.StatusOK)
}

func (c *EmissionController) Receive(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	emissionID, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	received, err := c.emissionService.Receive(ctx.Request().Context(), actorID, emissionID)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, received, "Эмиссия отмечена полученной", http.StatusOK)
}

func (c *EmissionController) Unreceive(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	emissionID, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	emission, err := c.emissionService.Unreceive(ctx.Request().Context(), actorID, emissionID)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, emission, "Отметка о получении снята", http.StatusOK)
}
