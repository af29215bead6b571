package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/mining-portal/internal/models"
)

const userColumns = `uid, name, email, phone, status, username, password_hash, role,
	firm_name, company_name, state, district, minerals, license_no,
	registration_fee, payment_status, has_library_access, library_payment_status,
	created_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.UUID, &u.Name, &u.Email, &u.Phone, &u.Status, &u.Username,
		&u.PasswordHash, &u.Role, &u.FirmName, &u.CompanyName, &u.State,
		&u.District, &u.Minerals, &u.LicenseNo, &u.RegistrationFee,
		&u.PaymentStatus, &u.HasLibraryAccess, &u.LibraryPaymentStatus,
		&u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (name, email, phone, status, username, password_hash, role,
			      firm_name, company_name, state, district, minerals, license_no,
			      registration_fee, payment_status, has_library_access, library_payment_status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.Phone, user.Status, user.Username,
		user.PasswordHash, user.Role, user.FirmName, user.CompanyName,
		user.State, user.District, user.Minerals, user.LicenseNo,
		user.RegistrationFee, user.PaymentStatus, user.HasLibraryAccess,
		user.LibraryPaymentStatus).Scan(&newUID); err != nil {
		return "", mapError(op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// UsernameTaken проверяет занятость имени пользователя.
func (s *Storage) UsernameTaken(ctx context.Context, username string) (bool, error) {
	const op = "storage.UsernameTaken"
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	if err := s.DB.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, mapError(op, err)
	}
	return exists, nil
}

// EmailTaken проверяет занятость электронной почты.
func (s *Storage) EmailTaken(ctx context.Context, email string) (bool, error) {
	const op = "storage.EmailTaken"
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, mapError(op, err)
	}
	return exists, nil
}

// UpdateUserProfile частично обновляет изменяемые поля профиля.
// Пустые значения в upd оставляют столбец без изменений. Пароль, username
// и email этим запросом не затрагиваются.
func (s *Storage) UpdateUserProfile(ctx context.Context, username string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "storage.UpdateUserProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name         = COALESCE(NULLIF($1, ''), name),
			      phone        = COALESCE(NULLIF($2, ''), phone),
			      status       = COALESCE(NULLIF($3, ''), status),
			      firm_name    = COALESCE(NULLIF($4, ''), firm_name),
			      company_name = COALESCE(NULLIF($5, ''), company_name),
			      state        = COALESCE(NULLIF($6, ''), state),
			      district     = COALESCE(NULLIF($7, ''), district),
			      minerals     = COALESCE(NULLIF($8, ''), minerals),
			      license_no   = COALESCE(NULLIF($9, ''), license_no)
			  WHERE username = $10
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		upd.Name, upd.Phone, upd.Status, upd.FirmName, upd.CompanyName,
		upd.State, upd.District, upd.Minerals, upd.LicenseNo, username))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// UnlockLibraryAccess открывает доступ к библиотеке и отмечает оплату
// завершённой одним UPDATE: оба поля меняются атомарно, либо не меняется ничего.
func (s *Storage) UnlockLibraryAccess(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.UnlockLibraryAccess"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET has_library_access = TRUE,
			      library_payment_status = $1
			  WHERE uid = $2
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, models.PaymentCompleted, userUID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}
