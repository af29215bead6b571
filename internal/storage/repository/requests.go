package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/mining-portal/internal/models"
)

// Обращения двух вариантов лежат в двух независимых таблицах одинаковой
// формы. Вариант выбирает таблицу; множество вариантов закрыто.
func tableFor(kind models.RequestKind) string {
	if kind == models.KindMiningPlan {
		return "mining_plan_requests"
	}
	return "legal_advice_requests"
}

const requestColumns = `id, user_uid, username, title, description,
	file_handle, file_name, status, submitted_at, response, admin_notes, responded_at`

func scanRequest(row interface{ Scan(dest ...any) error }, kind models.RequestKind) (*models.Request, error) {
	r := &models.Request{Kind: kind}
	var fileHandle, fileName, response, adminNotes sql.NullString
	var respondedAt sql.NullTime
	err := row.Scan(&r.ID, &r.UserUID, &r.Username, &r.Title, &r.Description,
		&fileHandle, &fileName, &r.Status, &r.SubmittedAt,
		&response, &adminNotes, &respondedAt)
	if err != nil {
		return nil, err
	}
	r.FileHandle = fileHandle.String
	r.FileName = fileName.String
	r.Response = response.String
	r.AdminNotes = adminNotes.String
	if respondedAt.Valid {
		r.RespondedAt = &respondedAt.Time
	}
	return r, nil
}

// CreateRequest сохраняет новое обращение и возвращает его ID.
// Статус выставляется в Pending на стороне схемы.
func (s *Storage) CreateRequest(ctx context.Context, req models.Request) (string, error) {
	const op = "storage.CreateRequest"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := fmt.Sprintf(`INSERT INTO %s (user_uid, username, title, description, file_handle, file_name)
			  VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
			  RETURNING id;`, tableFor(req.Kind))
	if err := s.DB.QueryRowContext(ctx, query,
		req.UserUID, req.Username, req.Title, req.Description,
		req.FileHandle, req.FileName).Scan(&newID); err != nil {
		return "", mapError(op, err)
	}
	return newID, nil
}

// GetRequestByID возвращает обращение по его ID.
func (s *Storage) GetRequestByID(ctx context.Context, kind models.RequestKind, id string) (*models.Request, error) {
	const op = "storage.GetRequestByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`SELECT `+requestColumns+` FROM %s WHERE id = $1`, tableFor(kind))
	r, err := scanRequest(s.DB.QueryRowContext(ctx, query, id), kind)
	if err != nil {
		return nil, mapError(op, err)
	}
	return r, nil
}

// ListRequestsByUsername возвращает обращения пользователя,
// упорядоченные по времени подачи по убыванию.
func (s *Storage) ListRequestsByUsername(ctx context.Context, kind models.RequestKind, username string) ([]*models.Request, error) {
	const op = "storage.ListRequestsByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`SELECT `+requestColumns+`
			  FROM %s
			  WHERE username = $1
			  ORDER BY submitted_at DESC`, tableFor(kind))
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Request
	for rows.Next() {
		r, err := scanRequest(rows, kind)
		if err != nil {
			return nil, mapError(op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return result, nil
}

// ListAllRequests возвращает все обращения варианта,
// упорядоченные по времени подачи по убыванию.
func (s *Storage) ListAllRequests(ctx context.Context, kind models.RequestKind) ([]*models.Request, error) {
	const op = "storage.ListAllRequests"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`SELECT `+requestColumns+`
			  FROM %s
			  ORDER BY submitted_at DESC`, tableFor(kind))
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Request
	for rows.Next() {
		r, err := scanRequest(rows, kind)
		if err != nil {
			return nil, mapError(op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return result, nil
}

// UpdateRequestResponse применяет частичное обновление администратора.
// Пустые поля не меняют столбец, responded_at выставляется всегда.
// Последняя запись выигрывает: токена конкуренции нет.
func (s *Storage) UpdateRequestResponse(ctx context.Context, kind models.RequestKind, id string,
	upd models.RespondUpdate, respondedAt time.Time) (*models.Request, error) {
	const op = "storage.UpdateRequestResponse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`UPDATE %s
			  SET response     = COALESCE(NULLIF($1, ''), response),
			      status       = COALESCE(NULLIF($2, ''), status),
			      admin_notes  = COALESCE(NULLIF($3, ''), admin_notes),
			      responded_at = $4
			  WHERE id = $5
			  RETURNING `+requestColumns, tableFor(kind))
	r, err := scanRequest(s.DB.QueryRowContext(ctx, query,
		upd.Response, upd.Status, upd.AdminNotes, respondedAt, id), kind)
	if err != nil {
		return nil, mapError(op, err)
	}
	return r, nil
}
