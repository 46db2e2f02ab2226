package domain

import (
	"errors"
	"fmt"
)

// ErrorKind классифицирует ошибки доменного слоя.
// Ошибки возвращаются как значения: исключения для ожидаемых ветвлений не используются.
type ErrorKind string

const (
	// KindNotFound — магазин/товар/оффер/аукцион/пользователь не найден.
	KindNotFound ErrorKind = "not_found"
	// KindPermissionDenied — у вызывающего нет нужной роли, права или связи предок-потомок.
	KindPermissionDenied ErrorKind = "permission_denied"
	// KindInvalidArgument — некорректный аргумент: неположительное количество/цена/срок,
	// пустое имя, ставка или оффер ниже минимума, пустое множество прав.
	KindInvalidArgument ErrorKind = "invalid_argument"
	// KindConflict — конфликт состояния: дубликат pending-назначения, повторный оффер,
	// недостаточно высокая ставка, удаление менеджера с потомками.
	KindConflict ErrorKind = "conflict"
	// KindInternal — нарушен внутренний инвариант (сломанное дерево ролей и т.п.).
	// Такая ошибка — дефект, её нужно громко логировать, а не тихо чинить.
	KindInternal ErrorKind = "internal_inconsistency"
)

// Error — доменная ошибка с типом и человекочитаемым сообщением.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error реализует error.
func (e *Error) Error() string {
	return e.Message
}

// Is позволяет сравнивать ошибки одного типа через errors.Is.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// NotFound создаёт ошибку отсутствующей сущности.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// PermissionDenied создаёт ошибку отсутствия прав.
func PermissionDenied(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPermissionDenied, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument создаёт ошибку некорректного аргумента.
func InvalidArgument(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Conflict создаёт ошибку конфликта состояния.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Inconsistency создаёт ошибку нарушенного инварианта.
func Inconsistency(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// KindOf возвращает тип доменной ошибки или пустую строку для посторонних ошибок.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}

// IsNotFound проверяет, что ошибка — отсутствие сущности.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsPermissionDenied проверяет, что ошибка — отказ в правах.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == KindPermissionDenied
}

// IsInvalidArgument проверяет, что ошибка — некорректный аргумент.
func IsInvalidArgument(err error) bool {
	return KindOf(err) == KindInvalidArgument
}

// IsConflict проверяет, что ошибка — конфликт состояния.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// IsInconsistency проверяет, что ошибка — нарушенный инвариант.
func IsInconsistency(err error) bool {
	return KindOf(err) == KindInternal
}
