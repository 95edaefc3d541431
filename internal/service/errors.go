package service

import "errors"

var (
	// ErrNotFound запись с таким ID не найдена
	ErrNotFound = errors.New("appointment not found")
	// ErrServiceNotFound услуга с таким ID не найдена
	ErrServiceNotFound = errors.New("service not found")
	// ErrInvalidTransition перевод статуса из текущего невозможен
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrRateLimited превышен лимит заявок с одного телефона
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrDateTooFar дата дальше открытого окна записи
	ErrDateTooFar = errors.New("booking date is too far in advance")
	// ErrSlotNotFound в шаблоне нет такого слота
	ErrSlotNotFound = errors.New("slot not found in template")
)
