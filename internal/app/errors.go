package app

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredential  = errors.New("invalid username or password")
	ErrDelegateInactive   = errors.New("delegate is inactive")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrQuotaExceeded      = errors.New("document quota exceeded")
	ErrUpstream           = errors.New("upstream service unavailable")
	ErrAccountNotFound    = errors.New("account not found")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrDelegateNotFound   = errors.New("delegate not found")
	ErrDocumentNotFound   = errors.New("document not found")
)
