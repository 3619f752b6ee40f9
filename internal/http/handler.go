package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	dto "snow-board.com/snow-board/internal/data_models"
	apperrors "snow-board.com/snow-board/internal/errors"
	"snow-board.com/snow-board/internal/estimator"
	"snow-board.com/snow-board/internal/metrics"
	"snow-board.com/snow-board/internal/services"
	"snow-board.com/snow-board/internal/validators"
)

type Handler struct {
	taskService *services.TaskService
	estimator   estimator.Client
	metrics     *metrics.Metrics
	binder      echo.DefaultBinder
}

func NewHandler(taskService *services.TaskService, est estimator.Client, m *metrics.Metrics) *Handler {
	return &Handler{
		taskService: taskService,
		estimator:   est,
		metrics:     m,
	}
}

func (h *Handler) bindBody(c echo.Context, v interface{}) error {
	if err := h.binder.BindBody(c, v); err != nil {
		return apperrors.ErrInvalidJSON
	}
	return nil
}

func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.ListTasks(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.PublicTasks(tasks))
}

func (h *Handler) ListMyTasks(c echo.Context) error {
	creds := dto.OwnerCredentials{
		Phone:    dto.Text(c.QueryParam("phone")),
		Password: dto.Text(c.QueryParam("password")),
	}

	tasks, err := h.taskService.ListOwnerTasks(c.Request().Context(), creds)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OwnerTasks(tasks))
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := h.bindBody(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.CreateTaskResponse{
		ID:        task.ID,
		CreatedAt: task.CreatedAt,
		Status:    task.Status,
	})
}

func (h *Handler) TakeTask(c echo.Context) error {
	var req dto.TakeTaskRequest
	if err := h.bindBody(c, &req); err != nil {
		return err
	}

	if err := h.taskService.TakeTask(c.Request().Context(), c.Param("id"), req.Phone.String()); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

func (h *Handler) ClearTaken(c echo.Context) error {
	var creds dto.OwnerCredentials
	if err := h.bindBody(c, &creds); err != nil {
		return err
	}

	if err := h.taskService.ClearTaken(c.Request().Context(), c.Param("id"), creds); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

func (h *Handler) DeleteTask(c echo.Context) error {
	var creds dto.OwnerCredentials
	if err := h.bindBody(c, &creds); err != nil {
		return err
	}

	if err := h.taskService.CompleteTask(c.Request().Context(), c.Param("id"), creds); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Estimate never fails because of the estimator; a missing estimate is
// reported as null.
func (h *Handler) Estimate(c echo.Context) error {
	area, err := strconv.ParseInt(strings.TrimSpace(c.QueryParam("area")), 10, 64)
	if err != nil {
		return apperrors.ErrInvalidArea
	}
	if err := validators.ValidateArea(area); err != nil {
		return err
	}
	wantsSalt, _ := strconv.ParseBool(c.QueryParam("wantsSalt"))

	est := h.estimator.Estimate(c.Request().Context(), area, wantsSalt)
	if est == nil {
		h.metrics.Estimate("none")
	} else {
		h.metrics.Estimate("ok")
	}

	return c.JSON(http.StatusOK, echo.Map{"estimate": est})
}

func (h *Handler) Gate(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

func (h *Handler) Health(c echo.Context) error {
	if err := h.taskService.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
