// Package auth содержит бизнес-логику учётных записей: регистрацию с
// проверкой платёжного подтверждения, вход, профили и открытие доступа
// к библиотеке.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/mining-portal/internal/lib/apperr"
	"github.com/magabrotheeeer/mining-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/mining-portal/internal/lib/password"
	"github.com/magabrotheeeer/mining-portal/internal/lib/signature"
	"github.com/magabrotheeeer/mining-portal/internal/models"
	"github.com/magabrotheeeer/mining-portal/internal/services/authz"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// UsernameTaken и EmailTaken проверяют занятость идентификаторов.
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)

	// UpdateUserProfile частично обновляет изменяемые поля профиля.
	UpdateUserProfile(ctx context.Context, username string, upd models.ProfileUpdate) (*models.User, error)

	// UnlockLibraryAccess атомарно открывает доступ к библиотеке и
	// отмечает его оплату завершённой.
	UnlockLibraryAccess(ctx context.Context, userUID string) (*models.User, error)
}

// RegisterInput — данные регистрации нового пользователя.
type RegisterInput struct {
	Name        string
	Email       string
	Phone       string
	Status      string
	Username    string
	Password    string
	FirmName    string
	CompanyName string
	State       string
	District    string
	Minerals    string
	LicenseNo   string
}

// AuthService отвечает за регистрацию, авторизацию, профили и доступ к библиотеке.
type AuthService struct {
	users           UserRepository
	jwtMaker        jwt.Maker
	gatewaySecret   string // Ключ платёжной системы, которым подписано подтверждение
	registrationFee int
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, gatewaySecret string, registrationFee int) *AuthService {
	return &AuthService{
		users:           users,
		jwtMaker:        jwtMaker,
		gatewaySecret:   gatewaySecret,
		registrationFee: registrationFee,
	}
}

// Register создаёт нового пользователя. Регистрация завершается только после
// успешной проверки платёжного подтверждения: статус оплаты completed
// выставляется здесь же, неподтверждённой регистрации не бывает.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, proof models.PaymentProof) (*models.User, error) {
	const op = "auth.Register"

	usernameTaken, err := s.users.UsernameTaken(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	emailTaken, err := s.users.EmailTaken(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if usernameTaken || emailTaken {
		return nil, fmt.Errorf("%s: %w: email or username already exists", op, apperr.ErrConflict)
	}

	if !signature.Verify(proof.OrderID, proof.PaymentID, proof.Signature, s.gatewaySecret) {
		return nil, fmt.Errorf("%s: %w: invalid payment signature", op, apperr.ErrForbidden)
	}

	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Name:                 in.Name,
		Email:                in.Email,
		Phone:                in.Phone,
		Status:               in.Status,
		Username:             in.Username,
		PasswordHash:         hashed,
		Role:                 "user", // дефолтная роль при регистрации
		FirmName:             in.FirmName,
		CompanyName:          in.CompanyName,
		State:                in.State,
		District:             in.District,
		Minerals:             in.Minerals,
		LicenseNo:            in.LicenseNo,
		RegistrationFee:      s.registrationFee,
		PaymentStatus:        models.PaymentCompleted,
		LibraryPaymentStatus: models.PaymentPending,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.UUID = uid
	return &user, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
// Неизвестное имя и неверный пароль дают одну и ту же ошибку,
// чтобы не раскрывать существование имени пользователя.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, *models.User, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidCredentials)
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidCredentials)
	}
	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role, user.UUID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// ValidateToken проверяет JWT и возвращает пользователя из claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UUID:     claims.UserUID,
	}, nil
}

// GetProfile возвращает пользователя по имени.
func (s *AuthService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return s.users.GetUserByUsername(ctx, username)
}

// UpdateProfile изменяет профиль пользователя. Разрешено только владельцу;
// пароль, имя пользователя и почта не изменяются.
func (s *AuthService) UpdateProfile(ctx context.Context, actor *models.User, targetUsername string,
	upd models.ProfileUpdate) (*models.User, error) {
	const op = "auth.UpdateProfile"

	if !authz.CanUpdateProfile(actor, targetUsername) {
		return nil, fmt.Errorf("%s: %w: not authorized to update this profile", op, apperr.ErrForbidden)
	}
	return s.users.UpdateUserProfile(ctx, targetUsername, upd)
}

// CheckAvailability сообщает, свободны ли имя пользователя и почта.
// Пустые аргументы считаются свободными.
func (s *AuthService) CheckAvailability(ctx context.Context, username, email string) (usernameFree, emailFree bool, err error) {
	const op = "auth.CheckAvailability"
	usernameFree, emailFree = true, true

	if username != "" {
		taken, err := s.users.UsernameTaken(ctx, username)
		if err != nil {
			return false, false, fmt.Errorf("%s: %w", op, err)
		}
		usernameFree = !taken
	}
	if email != "" {
		taken, err := s.users.EmailTaken(ctx, email)
		if err != nil {
			return false, false, fmt.Errorf("%s: %w", op, err)
		}
		emailFree = !taken
	}
	return usernameFree, emailFree, nil
}

// UnlockLibrary открывает пользователю доступ к библиотеке после проверки
// платёжного подтверждения. Флаг доступа и статус оплаты меняются атомарно.
func (s *AuthService) UnlockLibrary(ctx context.Context, userUID string, proof models.PaymentProof) (*models.User, error) {
	const op = "auth.UnlockLibrary"

	if !signature.Verify(proof.OrderID, proof.PaymentID, proof.Signature, s.gatewaySecret) {
		return nil, fmt.Errorf("%s: %w: invalid payment signature", op, apperr.ErrForbidden)
	}
	return s.users.UnlockLibraryAccess(ctx, userUID)
}
