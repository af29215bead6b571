// Package register реализует HTTP-обработчик регистрации пользователей.
//
// Регистрация платная: вместе с данными учётной записи приходит платёжное
// подтверждение (order_id, payment_id, signature), без валидной подписи
// учётная запись не создаётся.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mining-portal/internal/http/response"
	"github.com/magabrotheeeer/mining-portal/internal/lib/sl"
	"github.com/magabrotheeeer/mining-portal/internal/models"
	authservice "github.com/magabrotheeeer/mining-portal/internal/services/auth"
)

// Request — входные данные для регистрации.
type Request struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	Status      string `json:"status" validate:"required"`
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Password    string `json:"password" validate:"required,min=6"`
	FirmName    string `json:"firm_name"`
	CompanyName string `json:"company_name"`
	State       string `json:"state"`
	District    string `json:"district"`
	Minerals    string `json:"minerals"`
	LicenseNo   string `json:"license_no"`
	OrderID     string `json:"order_id" validate:"required"`
	PaymentID   string `json:"payment_id" validate:"required"`
	Signature   string `json:"signature" validate:"required"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, in authservice.RegisterInput, proof models.PaymentProof) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики регистрации
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создаёт учётную запись после проверки платёжного подтверждения.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные учётной записи и платёжное подтверждение"
// @Success 201 {object} map[string]any "Учётная запись создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Неверная подпись платежа"
// @Failure 409 {object} response.ErrorResponse "Имя пользователя или почта заняты"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при регистрации"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	user, err := h.service.Register(r.Context(), authservice.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Status:      req.Status,
		Username:    req.Username,
		Password:    req.Password,
		FirmName:    req.FirmName,
		CompanyName: req.CompanyName,
		State:       req.State,
		District:    req.District,
		Minerals:    req.Minerals,
		LicenseNo:   req.LicenseNo,
	}, models.PaymentProof{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		status, body := response.DomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("user registered", slog.String("username", user.Username))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "registration successful",
		"user":    user.View(),
	}))
}
