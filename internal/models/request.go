// Package models содержит доменные структуры обращений пользователей.
//
// Обращения существуют в двух вариантах: юридическая консультация и
// запрос по плану горных работ. Жизненный цикл у вариантов одинаковый,
// различаются только допустимые статусы.
package models

import "time"

// RequestKind определяет вариант обращения.
type RequestKind string

const (
	// KindLegalAdvice — запрос юридической консультации.
	KindLegalAdvice RequestKind = "legal-advice"
	// KindMiningPlan — запрос по плану горных работ.
	KindMiningPlan RequestKind = "mining-plan"
)

// Статусы обращений. Начальный статус всегда Pending.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusResponded  = "Responded"
	StatusClosed     = "Closed"
	StatusCompleted  = "Completed"
	StatusRejected   = "Rejected"
)

var requestStatuses = map[RequestKind][]string{
	KindLegalAdvice: {StatusPending, StatusInProgress, StatusResponded, StatusClosed},
	KindMiningPlan:  {StatusPending, StatusInProgress, StatusCompleted, StatusRejected},
}

// ParseRequestKind проверяет значение варианта из URL.
// Возвращает false, если вариант неизвестен.
func ParseRequestKind(s string) (RequestKind, bool) {
	switch RequestKind(s) {
	case KindLegalAdvice, KindMiningPlan:
		return RequestKind(s), true
	}
	return "", false
}

// ValidStatus сообщает, входит ли статус в перечень допустимых для варианта.
// Администратор может перевести обращение из любого статуса в любой другой,
// но только в пределах этого перечня.
func (k RequestKind) ValidStatus(status string) bool {
	for _, s := range requestStatuses[k] {
		if s == status {
			return true
		}
	}
	return false
}

// Request представляет обращение пользователя.
// Владелец назначается при создании и не меняется. Обращения не удаляются.
type Request struct {
	ID          string      `json:"id"`
	Kind        RequestKind `json:"kind"`
	UserUID     string      `json:"user_uid"`
	Username    string      `json:"username"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	FileHandle  string      `json:"file_handle,omitempty"` // Имя сохранённого файла в хранилище
	FileName    string      `json:"file_name,omitempty"`   // Исходное имя загруженного файла
	Status      string      `json:"status"`
	SubmittedAt time.Time   `json:"submitted_at"`
	Response    string      `json:"response,omitempty"`
	AdminNotes  string      `json:"admin_notes,omitempty"`
	RespondedAt *time.Time  `json:"responded_at,omitempty"`
}

// RespondUpdate содержит частичное обновление обращения администратором.
// Пустые поля не применяются, responded_at выставляется при каждом вызове.
type RespondUpdate struct {
	Response   string `json:"response"`
	Status     string `json:"status"`
	AdminNotes string `json:"admin_notes"`
}
