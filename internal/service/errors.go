package service

import "errors"

// Ошибки доменного уровня. Хендлеры мапят их на HTTP-статусы;
// ошибки хранилища сюда не сворачиваются и проходят наверх как есть.
var (
	// ErrTagNotFound — токен не существует.
	ErrTagNotFound = errors.New("tag not found")

	// ErrAlreadyClaimed — попытка повторного Claim.
	ErrAlreadyClaimed = errors.New("tag already claimed")

	// ErrNotClaimed — операция требует заявленную метку.
	ErrNotClaimed = errors.New("tag not claimed yet")

	// ErrInvalidInput — пустое или некорректное обязательное поле.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPIN — PIN не совпал или отсутствует.
	ErrInvalidPIN = errors.New("invalid pin")

	// ErrUnauthorized — нет действующего edit-гранта или админ-ключ не подошёл.
	ErrUnauthorized = errors.New("unauthorized")
)
