// Package submit реализует HTTP-обработчик подачи нового обращения.
//
// Handler принимает multipart-форму с полями title, description и
// необязательным файлом, определяет вариант обращения из URL и вызывает
// бизнес-логику подачи. Новое обращение создаётся в статусе Pending.
package submit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mining-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-portal/internal/http/response"
	"github.com/magabrotheeeer/mining-portal/internal/lib/sl"
	"github.com/magabrotheeeer/mining-portal/internal/models"
	requestservice "github.com/magabrotheeeer/mining-portal/internal/services/request"
)

// Service описывает интерфейс бизнес-логики подачи обращения.
type Service interface {
	Submit(ctx context.Context, actor *models.User, in requestservice.SubmitInput) (*models.Request, error)
}

// Handler обрабатывает HTTP-запросы подачи обращений.
type Handler struct {
	log           *slog.Logger // Логгер для записи информации и ошибок
	service       Service      // Сервис бизнес-логики обращений
	maxUploadSize int64        // Предел размера multipart-формы
}

// New создает новый Handler с переданными логгером, сервисом и пределом размера загрузки.
func New(log *slog.Logger, service Service, maxUploadSize int64) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		maxUploadSize: maxUploadSize,
	}
}

// ServeHTTP godoc
// @Summary Подать обращение
// @Description Создаёт новое обращение выбранного варианта с необязательным вложением.
// @Tags Requests
// @Accept  mpfd
// @Produce  json
// @Param variant path string true "Вариант обращения: legal-advice или mining-plan"
// @Param title formData string true "Заголовок"
// @Param description formData string true "Описание"
// @Param file formData file false "Вложение"
// @Success 201 {object} map[string]any "Созданное обращение"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма"
// @Failure 403 {object} response.ErrorResponse "Подача от чужого имени"
// @Failure 404 {object} response.ErrorResponse "Учётная запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Сбой хранилища"
// @Router /requests/{variant} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.request.submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	kind, ok := models.ParseRequestKind(chi.URLParam(r, "variant"))
	if !ok {
		log.Error("unknown request variant")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown request variant"))
		return
	}

	actor, okActor := middlewarectx.Actor(r.Context())
	if !okActor {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	in := requestservice.SubmitInput{
		Kind:        kind,
		Username:    r.FormValue("username"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer func() {
			_ = file.Close()
		}()
		in.Attachment = &requestservice.Attachment{
			OriginalName: header.Filename,
			Content:      file,
		}
	case errors.Is(err, http.ErrMissingFile):
		// Вложение необязательно.
	default:
		log.Error("failed to read uploaded file", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid uploaded file"))
		return
	}

	created, err := h.service.Submit(r.Context(), actor, in)
	if err != nil {
		log.Error("failed to submit request", sl.Err(err))
		status, body := response.DomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("request submitted", slog.String("kind", string(kind)), slog.String("id", created.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "request submitted successfully",
		"request": created,
	}))
}
