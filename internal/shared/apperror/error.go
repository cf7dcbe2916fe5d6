package apperror

// AppError adalah error domain yang sudah tahu bentuk HTTP-nya. Sentinel
// per-fitur (employee, holiday, dst) dibangun lewat New, lalu handler
// memetakannya dengan ToHTTP.
type AppError struct {
	Code       string // kode stabil untuk client, contoh: INVALID_INPUT
	Message    string // pesan yang aman ditampilkan ke pengguna
	HTTPStatus int
}

func (e *AppError) Error() string {
	return e.Message
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}
