// Package apperr определяет доменные виды ошибок портала.
//
// Каждый вид однозначно соответствует HTTP-статусу на границе API.
// Сервисы оборачивают ошибки через fmt.Errorf с %w, обработчики
// сопоставляют их через errors.Is.
package apperr

import "errors"

var (
	// ErrValidation — некорректные или отсутствующие входные данные (400).
	ErrValidation = errors.New("validation failed")
	// ErrConflict — нарушение уникальности username или email (409).
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials — неизвестный пользователь или неверный пароль (401).
	// Оба случая неразличимы для вызывающего.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrForbidden — аутентифицирован, но действие запрещено,
	// либо платёжное подтверждение не прошло проверку (403).
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — запись отсутствует (404).
	ErrNotFound = errors.New("not found")
	// ErrStorage — сбой ввода-вывода хранилища файлов или базы (500).
	ErrStorage = errors.New("storage failure")
)
