package domain

import "errors"

var (
	// ErrMalformedSourceResult - адаптер нарушил контракт:
	// статус OK, но набора полей нет.
	ErrMalformedSourceResult = errors.New("malformed source result: status OK without fields")

	// ErrStorageCommit - транзакция записи в хранилище не прошла.
	// Откатывается только эта запись, обработка продолжается.
	ErrStorageCommit = errors.New("storage commit failed")

	// ErrListingNotFound - объявление с таким SourceURL не найдено.
	ErrListingNotFound = errors.New("listing not found")

	// ErrMissingMandatoryFields - при создании нового объявления
	// отсутствует одно из обязательных полей.
	ErrMissingMandatoryFields = errors.New("missing mandatory listing fields")
)
