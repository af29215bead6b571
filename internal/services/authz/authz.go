// Package authz содержит единую политику авторизации портала.
//
// Каждая операция над обращениями и профилями консультирует политику до
// чтения или изменения данных; отказ — это явная ошибка авторизации,
// а не молчаливая фильтрация. Раньше проверки роли были размазаны по
// обработчикам, здесь они собраны в одном месте.
package authz

import "github.com/magabrotheeeer/mining-portal/internal/models"

// CanRead разрешает чтение обращения владельцу и администратору.
func CanRead(actor *models.User, req *models.Request) bool {
	return actor.UUID == req.UserUID || actor.IsAdmin()
}

// CanReadAllOwnedBy разрешает чтение списка обращений пользователя
// самому пользователю и администратору.
func CanReadAllOwnedBy(actor *models.User, username string) bool {
	return actor.Username == username || actor.IsAdmin()
}

// CanRespond разрешает отвечать на обращения только администратору.
func CanRespond(actor *models.User) bool {
	return actor.IsAdmin()
}

// CanListAll разрешает просмотр всех обращений только администратору.
func CanListAll(actor *models.User) bool {
	return actor.IsAdmin()
}

// CanUpdateProfile разрешает изменение профиля только его владельцу.
// Административного переопределения здесь нет намеренно.
func CanUpdateProfile(actor *models.User, targetUsername string) bool {
	return actor.Username == targetUsername
}
