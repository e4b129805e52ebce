package serverutils

// ErrorBody mirrors the wire format consumed by the support widget: a single
// human-readable detail string, never an internal error.
type ErrorBody struct {
	Detail string `json:"detail"`
}

func ErrorResponse(detail string) ErrorBody {
	return ErrorBody{Detail: detail}
}
