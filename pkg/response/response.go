package response

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Error Codes
type ErrCode string

var (
	FAILED_REQUEST     ErrCode = "REQUEST_FAILED"
	BAD_REQUEST        ErrCode = "FAILED_TO_DECODE"
	VALIDATION_ERROR   ErrCode = "VALIDATION_ERROR"
	NOT_FOUND          ErrCode = "NOT_FOUND"
	LOCKED             ErrCode = "LOCKED"
	SLOT_TAKEN         ErrCode = "SLOT_TAKEN"
	PERSISTENCE_ERROR  ErrCode = "PERSISTENCE_ERROR"
	LEDGER_UNCONFIRMED ErrCode = "LEDGER_UNCONFIRMED"
)

func Error(code ErrCode, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    string(code),
			Message: msg,
		},
	}
}

func ValidationError(msg string, details map[string]string) Response {
	resp := Error(VALIDATION_ERROR, msg)
	resp.Details = details
	return resp
}
