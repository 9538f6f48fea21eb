package errors

import "fmt"

var (
	ErrMessageNotFound    = fmt.Errorf("message not found")
	ErrNotAuthor          = fmt.Errorf("only the author may modify a message")
	ErrAdminOnly          = fmt.Errorf("operation restricted to admins")
	ErrEmptyMessage       = fmt.Errorf("message has no content and no attachments")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrUnsupportedType    = fmt.Errorf("unsupported attachment type")
	ErrNotAuthenticated   = fmt.Errorf("no session present")
	ErrWorkerPanic        = fmt.Errorf("worker panicked")
)
