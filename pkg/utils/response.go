package utils

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "sequencer/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Body    interface{} `json:"body,omitempty"`
	Total   uint64      `json:"total,omitempty"`
}

// ErrorList сопоставляет доменные ошибки HTTP-статусам.
// Всё, чего здесь нет, уходит клиенту как 500 без деталей.
var ErrorList = map[error]int{
	apperrors.ErrNotFound:                http.StatusNotFound,
	apperrors.ErrBadRequest:              http.StatusBadRequest,
	apperrors.ErrForbidden:               http.StatusForbidden,
	apperrors.ErrInvalidCredentials:      http.StatusUnauthorized,
	apperrors.ErrEmptyAuthHeader:         http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:       http.StatusUnauthorized,
	apperrors.ErrInvalidToken:            http.StatusUnauthorized,
	apperrors.ErrTokenExpired:            http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:        http.StatusUnauthorized,
	apperrors.ErrTokenIsNotRefresh:       http.StatusUnauthorized,
	apperrors.ErrUserIDNotFoundInContext: http.StatusUnauthorized,
	apperrors.ErrSequenceClosed:          http.StatusConflict,
	apperrors.ErrAlreadyReceived:         http.StatusConflict,
	apperrors.ErrNotReceived:             http.StatusConflict,
	apperrors.ErrLastAdminProtected:      http.StatusConflict,
	apperrors.ErrInvalidQuantity:         http.StatusBadRequest,
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(total) > 0 {
		response.Total = total[0]
	}
	return ctx.JSON(code, response)
}

func ErrorResponse(ctx echo.Context, err error) error {
	message := apperrors.ErrInternalServer.Error()
	code := http.StatusInternalServerError
	var body interface{} = struct{}{}

	var httpErr *apperrors.HttpError
	var inputErr *apperrors.InvalidInputError
	var validationErrs validator.ValidationErrors
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &validationErrs):
		// Форма возвращается отправителю с сообщениями по полям.
		code = http.StatusBadRequest
		message = "ошибка валидации данных"
		fields := make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			fields[fe.Field()] = fe.Tag()
		}
		body = fields
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = httpErr.Message
	case errors.As(err, &inputErr):
		code = http.StatusBadRequest
		message = inputErr.Message
	case errors.As(err, &echoErr):
		code = echoErr.Code
		message = http.StatusText(code)
		if m, ok := echoErr.Message.(string); ok {
			message = m
		}
	default:
		for known, statusCode := range ErrorList {
			if errors.Is(err, known) {
				message = known.Error()
				code = statusCode
				break
			}
		}
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    body,
		Message: message,
	})
}
