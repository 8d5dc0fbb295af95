package domain

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrSourceUnavailable = errors.New("product source unavailable")
	ErrUnauthorized      = errors.New("price edit requires admin identity")
	ErrNonNumeric        = errors.New("price input is not numeric")
	ErrTooLarge          = errors.New("price input exceeds the maximum")
	ErrInvalidIdentity   = errors.New("unknown identity")
	ErrNoEditor          = errors.New("no open price editor for this product")
	ErrEditorClosed      = errors.New("price editor is closed")
)
