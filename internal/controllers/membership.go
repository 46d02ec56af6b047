package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sequencer/internal/dto"
	"sequencer/internal/services"
	"sequencer/pkg/utils"
)

type MembershipController struct {
	membershipService services.MembershipServiceInterface
	logger            *zap.Logger
}

func NewMembershipController(membershipService services.MembershipServiceInterface, logger *zap.Logger) *MembershipController {
	return &MembershipController{membershipService: membershipService, logger: logger}
}

func (c *MembershipController) GetMembers(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	departmentID, err := parseUUIDParam(ctx, "departmentID")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	members, err := c.membershipService.GetMembers(ctx.Request().Context(), actorID, departmentID)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, members, "Члены департамента успешно получены", http.StatusOK, uint64(len(members)))
}

func (c *MembershipController) AddMember(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	departmentID, err := parseUUIDParam(ctx, "departmentID")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.AddMemberDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	membership, err := c.membershipService.AddMember(ctx.Request().Context(), actorID, departmentID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, membership, "Член департамента успешно добавлен", http.StatusCreated)
}

func (c *MembershipController) UpdateMember(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	departmentID, err := parseUUIDParam(ctx, "departmentID")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	userID, err := parseUUIDParam(ctx, "userID")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateMemberDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"))
	}

	membership, err := c.membershipService.UpdateMember(ctx.Request().Context(), actorID, departmentID, userID, payload.CanAdministrate)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, membership, "Права члена департамента обновлены", http.StatusOK)
}

func (c *MembershipController) RemoveMember(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	departmentID, err := parseUUIDParam(ctx, "departmentID")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	userID, err := parseUUIDParam(ctx, "userID")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.membershipService.RemoveMember(ctx.Request().Context(), actorID, departmentID, userID); err != nil {
		c.logger.Error("ошибка при удалении члена департамента", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, nil, "Член департамента успешно удалён", http.StatusOK)
}
