package customvalidator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует кастомные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("login_format", isGoodLoginFormat); err != nil {
		return err
	}
	if err := v.RegisterValidation("dmy_date", isDayMonthYearDate); err != nil {
		return err
	}
	return nil
}

func isGoodLoginFormat(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[a-z0-9_.-]{3,32}$`)
	return re.MatchString(fl.Field().String())
}

// Дата в формате дд/мм/гггг — так же, как в строке поиска реестра.
func isDayMonthYearDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse("02/01/2006", s)
	return err == nil
}
