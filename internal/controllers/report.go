package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sequencer/internal/entities"
	"sequencer/internal/services"
	"sequencer/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// GetRegister выгружает реестр департамента; format=xlsx отдаёт файл,
// иначе — JSON с теми же строками.
func (c *ReportController) GetRegister(ctx echo.Context) error {
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	departmentID, err := parseUUIDParam(ctx, "departmentID")
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	department, rows, err := c.reportService.GetRegister(ctx.Request().Context(), actorID, departmentID, ctx.QueryParam("q"))
	if err != nil {
		c.logger.Error("ошибка при формировании реестра",
			zap.String("departmentID", departmentID.String()), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	if strings.ToLower(ctx.QueryParam("format")) == "xlsx" {
		return c.respondWithXLSX(ctx, department.Name, rows)
	}
	return utils.SuccessResponse(ctx, rows, "Реестр успешно сформирован", http.StatusOK, uint64(len(rows)))
}

var registerHeaders = []string{
	"№", "Содержание", "Адресат", "Дата", "Тип документа", "Год",
	"Эмитент", "Получен", "Кем получен", "Дата получения", "Пакет",
}

func rowToSlice(item entities.ReportRow) []interface{} {
	dateFmt := "02.01.2006"
	received := "нет"
	var receivedAt, batch string
	if item.Received {
		received = "да"
	}
	if item.DateReceived.Valid {
		receivedAt = item.DateReceived.Time.Format(dateFmt)
	}
	if item.Batch.Valid {
		batch = item.Batch.UUID.String()
	}

	return []interface{}{
		item.Number, item.Detail, item.Destination, item.Date.Format(dateFmt),
		item.DocumentTypeName, item.SequenceYear,
		item.UserFio.String, received, item.ReceivedFio.String, receivedAt, batch,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, departmentName string, rows []entities.ReportRow) error {
	f := excelize.NewFile()
	sheet := "Реестр документов"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &registerHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "K1", style)

	for i, item := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "C", 25)
	f.SetColWidth(sheet, "E", "E", 20)
	f.SetColWidth(sheet, "G", "G", 25)
	f.SetColWidth(sheet, "I", "K", 25)

	fileName := fmt.Sprintf("register_%s_%s.xlsx",
		strings.ReplaceAll(departmentName, " ", "_"), time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
