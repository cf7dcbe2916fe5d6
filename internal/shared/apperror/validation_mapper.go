package apperror

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// formatFieldName mengubah nama field json jadi label yang enak dibaca:
// leave_type_id -> Leave Type Id.
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}

// MapValidationError meringkas error binding Gin jadi satu AppError yang
// menunjuk field pertama yang gagal. Nama field diambil dari tag json
// karena Init sudah memasang RegisterTagNameFunc.
func MapValidationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)
	}

	e := errs[0]
	field := formatFieldName(e.Field())

	switch e.Tag() {
	case "required":
		return RequiredField(field)
	case "oneof":
		return New(CodeInvalidInput, field+" must be one of: "+e.Param(), http.StatusBadRequest)
	default:
		return InvalidField(field)
	}
}
