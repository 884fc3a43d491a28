package service

import "errors"

var (
	ErrValidation      = errors.New("validation")      // 400
	ErrInvalidCardData = errors.New("invalid card data") // 400
	ErrUnauthenticated = errors.New("unauthenticated") // 403
	ErrExpired         = errors.New("token expired")   // 400
	ErrForbidden       = errors.New("forbidden")       // 403
	ErrNotFound        = errors.New("not found")       // 404
	ErrConflict        = errors.New("conflict")        // 409
	ErrNoValidItems    = errors.New("no valid menu items ids found") // 400
	ErrTokenGeneration = errors.New("error generating auth token")   // 500
	ErrPaymentFailed   = errors.New("payment failed")  // 502
	ErrServer          = errors.New("internal error")  // 500
)
