package models

// Business status codes carried in the response envelope. Zero means
// success; the HTTP layer maps the rest onto status codes.
const (
	CodeSuccess         = 0
	CodeInvalidInput    = 40001
	CodeBadAdminLogin   = 40101
	CodeNotAllowed      = 40301
	CodeIdentityExists  = 40901
	CodeInternalError   = 50001
	CodeProvisionFailed = 50002
)

// Messages paired with the codes above.
const (
	MsgSuccess         = "Success"
	MsgInvalidInput    = "Invalid input parameter."
	MsgBadAdminLogin   = "Invalid admin password."
	MsgNotAllowed      = "Identity key is not eligible to apply."
	MsgIdentityExists  = "Identity key already exists."
	MsgInternalError   = "Internal server error."
	MsgProvisionFailed = "Database provisioning failed."
)

// Response is the uniform API envelope.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func Success(data any) Response {
	return Response{Code: CodeSuccess, Message: MsgSuccess, Data: data}
}

func Error(code int, message string) Response {
	return Response{Code: code, Message: message}
}
