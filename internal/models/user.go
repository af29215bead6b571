// Package models содержит доменные модели системы: учётные записи,
// обращения пользователей и данные платёжного подтверждения.
package models

import "time"

// Статусы оплаты, используемые для регистрационного взноса и доступа к библиотеке.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// User представляет зарегистрированного пользователя или администратора портала.
type User struct {
	UUID                 string    // Уникальный идентификатор пользователя
	Name                 string    // Полное имя
	Email                string    // Электронная почта (уникальная)
	Phone                string    // Контактный телефон
	Status               string    // Статус заявителя (владелец, арендатор и т.п.)
	Username             string    // Имя пользователя (уникальное)
	PasswordHash         string    // Хэш пароля пользователя
	Role                 string    // Роль пользователя, admin или user
	FirmName             string    // Название фирмы
	CompanyName          string    // Название компании
	State                string    // Штат / регион
	District             string    // Район
	Minerals             string    // Добываемые полезные ископаемые
	LicenseNo            string    // Номер лицензии
	RegistrationFee      int       // Регистрационный взнос
	PaymentStatus        string    // Статус оплаты регистрации: pending или completed
	HasLibraryAccess     bool      // Открыт ли доступ к библиотеке
	LibraryPaymentStatus string    // Статус оплаты доступа к библиотеке
	CreatedAt            time.Time // Дата создания учётной записи
}

// IsAdmin сообщает, является ли пользователь администратором.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// UserView — представление пользователя для ответов API.
// Хэш пароля в представление не попадает никогда.
type UserView struct {
	UUID                 string `json:"uuid"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone,omitempty"`
	Status               string `json:"status,omitempty"`
	Username             string `json:"username"`
	Role                 string `json:"role"`
	FirmName             string `json:"firm_name,omitempty"`
	CompanyName          string `json:"company_name,omitempty"`
	State                string `json:"state,omitempty"`
	District             string `json:"district,omitempty"`
	Minerals             string `json:"minerals,omitempty"`
	LicenseNo            string `json:"license_no,omitempty"`
	PaymentStatus        string `json:"payment_status"`
	HasLibraryAccess     bool   `json:"has_library_access"`
	LibraryPaymentStatus string `json:"library_payment_status"`
}

// View возвращает представление пользователя без учётных данных.
func (u *User) View() UserView {
	return UserView{
		UUID:                 u.UUID,
		Name:                 u.Name,
		Email:                u.Email,
		Phone:                u.Phone,
		Status:               u.Status,
		Username:             u.Username,
		Role:                 u.Role,
		FirmName:             u.FirmName,
		CompanyName:          u.CompanyName,
		State:                u.State,
		District:             u.District,
		Minerals:             u.Minerals,
		LicenseNo:            u.LicenseNo,
		PaymentStatus:        u.PaymentStatus,
		HasLibraryAccess:     u.HasLibraryAccess,
		LibraryPaymentStatus: u.LibraryPaymentStatus,
	}
}

// ProfileUpdate содержит изменяемые поля профиля. Пароль, имя пользователя
// и почта через обновление профиля не меняются — таких полей здесь нет.
// Пустое значение означает "поле не менять".
type ProfileUpdate struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Status      string `json:"status"`
	FirmName    string `json:"firm_name"`
	CompanyName string `json:"company_name"`
	State       string `json:"state"`
	District    string `json:"district"`
	Minerals    string `json:"minerals"`
	LicenseNo   string `json:"license_no"`
}
