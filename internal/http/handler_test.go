package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"snow-board.com/snow-board/internal/credentials"
	"snow-board.com/snow-board/internal/estimator"
	middleware "snow-board.com/snow-board/internal/http/middlewares"
	"snow-board.com/snow-board/internal/metrics"
	model "snow-board.com/snow-board/internal/models"
	"snow-board.com/snow-board/internal/ratelimit"
	repository "snow-board.com/snow-board/internal/repositories"
	"snow-board.com/snow-board/internal/services"
)

type stubEstimator struct {
	est *estimator.Estimate
}

func (s stubEstimator) Estimate(context.Context, int64, bool) *estimator.Estimate {
	return s.est
}

func newTestServer(t *testing.T, opts RouteOptions, est estimator.Client) *echo.Echo {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Task{}))
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if est == nil {
		est = estimator.NewHeuristic()
	}

	hasher := credentials.NewBcryptHasher(bcrypt.MinCost)
	svc := services.NewTaskService(repository.NewTaskRepository(db, hasher), hasher, opts.Logger, opts.Metrics)

	e := echo.New()
	Register(e, NewHandler(svc, est, opts.Metrics), opts)
	return e
}

func do(e *echo.Echo, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const createBody = `{"name":"Anna","phone":"11223344","address":"Snevej 1","area":50,"price":150,"wantsSalt":true,"hasEquipment":false,"description":"","ownerPassword":"abc"}`

func createTask(t *testing.T, e *echo.Echo) string {
	t.Helper()

	rec := do(e, http.MethodPost, "/tasks", createBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode[map[string]any](t, rec)
	assert.Equal(t, "available", out["status"])
	assert.NotZero(t, out["createdAt"])
	return out["id"].(string)
}

func findTask(tasks []map[string]any, id string) map[string]any {
	for _, task := range tasks {
		if task["id"] == id {
			return task
		}
	}
	return nil
}

func TestTaskAPI_Scenario(t *testing.T) {
	e := newTestServer(t, RouteOptions{}, nil)

	id := createTask(t, e)

	rec := do(e, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	a := findTask(decode[[]map[string]any](t, rec), id)
	require.NotNil(t, a)
	assert.Equal(t, "available", a["status"])
	assert.Equal(t, float64(50), a["area"])
	assert.Equal(t, float64(150), a["price"])
	assert.Equal(t, true, a["wantsSalt"])
	assert.NotContains(t, a, "ownerPassword")
	assert.NotContains(t, a, "takenByPhone")

	rec = do(e, http.MethodPost, "/tasks/"+id+"/take", `{"phone":"12345678"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/tasks", "")
	a = findTask(decode[[]map[string]any](t, rec), id)
	assert.Equal(t, "taken", a["status"])
	assert.NotContains(t, a, "takenByPhone")
	assert.NotContains(t, rec.Body.String(), "12345678")

	rec = do(e, http.MethodGet, "/tasks/mine?phone=11223344&password=abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]map[string]any](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, "12345678", mine[0]["takenByPhone"])
	assert.NotContains(t, mine[0], "ownerPassword")

	rec = do(e, http.MethodPost, "/tasks/"+id+"/clear-taken", `{"phone":"11223344","password":"wrong"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodGet, "/tasks", "")
	assert.Equal(t, "taken", findTask(decode[[]map[string]any](t, rec), id)["status"])

	rec = do(e, http.MethodPost, "/tasks/"+id+"/clear-taken", `{"phone":"11223344","password":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/tasks/mine?phone=11223344&password=abc", "")
	mine = decode[[]map[string]any](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, "available", mine[0]["status"])
	assert.NotContains(t, mine[0], "takenByPhone")

	rec = do(e, http.MethodDelete, "/tasks/"+id, `{"phone":"11223344","password":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/tasks", "")
	assert.Nil(t, findTask(decode[[]map[string]any](t, rec), id))
}

func TestTaskAPI_CreateValidation(t *testing.T) {
	e := newTestServer(t, RouteOptions{}, nil)

	cases := map[string]string{
		"missing name":     `{"phone":"1","address":"a","area":5,"price":5,"ownerPassword":"x"}`,
		"zero area":        `{"name":"n","phone":"1","address":"a","area":0,"price":5,"ownerPassword":"x"}`,
		"missing password": `{"name":"n","phone":"1","address":"a","area":5,"price":5}`,
		"malformed":        `{"name":`,
		"empty body":       ``,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/tasks", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode[map[string]any](t, rec), "message")
		})
	}

	rec := do(e, http.MethodGet, "/tasks", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestTaskAPI_CreateCoercesInput(t *testing.T) {
	e := newTestServer(t, RouteOptions{}, nil)

	body := `{"name":"  Bo ","phone":" 22 ","address":" Vej 2 ","area":"40","price":"99.9","wantsSalt":1,"hasEquipment":"true","ownerPassword":""}`
	rec := do(e, http.MethodPost, "/tasks", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/tasks", "")
	tasks := decode[[]map[string]any](t, rec)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Bo", tasks[0]["name"])
	assert.Equal(t, "22", tasks[0]["phone"])
	assert.Equal(t, float64(40), tasks[0]["area"])
	assert.Equal(t, float64(99), tasks[0]["price"])
	assert.Equal(t, true, tasks[0]["wantsSalt"])
	assert.Equal(t, true, tasks[0]["hasEquipment"])
	assert.Equal(t, "", tasks[0]["description"])
}

func TestTaskAPI_AcceptsNonStringText(t *testing.T) {
	e := newTestServer(t, RouteOptions{}, nil)

	body := `{"name":"Bo","phone":11223344,"address":"Vej 2","area":40,"price":100,"wantsSalt":"yes","hasEquipment":2,"ownerPassword":1234}`
	rec := do(e, http.MethodPost, "/tasks", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id := decode[map[string]any](t, rec)["id"].(string)

	rec = do(e, http.MethodGet, "/tasks", "")
	task := findTask(decode[[]map[string]any](t, rec), id)
	require.NotNil(t, task)
	assert.Equal(t, "11223344", task["phone"])
	assert.Equal(t, true, task["wantsSalt"])
	assert.Equal(t, true, task["hasEquipment"])

	rec = do(e, http.MethodPost, "/tasks/"+id+"/take", `{"phone":87654321}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/tasks/mine?phone=11223344&password=1234", "")
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]map[string]any](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, "87654321", mine[0]["takenByPhone"])

	rec = do(e, http.MethodPost, "/tasks/"+id+"/clear-taken", `{"phone":11223344,"password":1234}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestTaskAPI_NullOwnerPasswordAccepted(t *testing.T) {
	e := newTestServer(t, RouteOptions{}, nil)

	body := `{"name":"Bo","phone":"22","address":"Vej 2","area":40,"price":100,"ownerPassword":null}`
	rec := do(e, http.MethodPost, "/tasks", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodPost, "/tasks", `{"name":null,"phone":"22","address":"Vej 2","area":40,"price":100,"ownerPassword":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/tasks", `{"name":{"first":"Bo"},"phone":"22","address":"Vej 2","area":40,"price":100,"ownerPassword":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/tasks", "")
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
}

func TestTaskAPI_TakeErrors(t *testing.T) {
	e := newTestServer(t, RouteOptions{}, nil)
	id := createTask(t, e)

	rec := do(e, http.MethodPost, "/tasks/"+id+"/take", `{"phone":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/tasks/nope/take", `{"phone":"1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodPost, "/tasks/"+id+"/take", `{"phone":"1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/tasks/"+id+"/take", `{"phone":"2"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTaskAPI_OwnerEndpointsRequireCredentials(t *testing.T) {
	e := newTestServer(t, RouteOptions{}, nil)
	id := createTask(t, e)

	rec := do(e, http.MethodGet, "/tasks/mine?phone=11223344", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/tasks/mine?phone=%20&password=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/tasks/"+id+"/clear-taken", `{"phone":"11223344"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodDelete, "/tasks/"+id, `{"password":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodDelete, "/tasks/"+id, `{"phone":"11223344","password":"abd"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodDelete, "/tasks/unknown", `{"phone":"11223344","password":"abc"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodGet, "/tasks/mine?phone=11223344&password=abd", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestTaskAPI_APIPrefix(t *testing.T) {
	e := newTestServer(t, RouteOptions{APIPrefix: "/api"}, nil)

	rec := do(e, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/tasks", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskAPI_Estimate(t *testing.T) {
	e := newTestServer(t, RouteOptions{}, stubEstimator{est: &estimator.Estimate{
		EstimatedMinutes: 30, Difficulty: "medium", ProTip: "Lift with your legs.",
	}})

	rec := do(e, http.MethodGet, "/estimate?area=50&wantsSalt=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"estimate":{"estimatedMinutes":30,"difficulty":"medium","proTip":"Lift with your legs."}}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/estimate?area=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/estimate?area=lots", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskAPI_EstimateUnavailable(t *testing.T) {
	m := metrics.New()
	e := newTestServer(t, RouteOptions{Metrics: m}, stubEstimator{})

	rec := do(e, http.MethodGet, "/estimate?area=50", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"estimate":null}`, rec.Body.String())
}

func TestTaskAPI_SiteGate(t *testing.T) {
	e := newTestServer(t, RouteOptions{SitePassword: "sne"}, nil)

	rec := do(e, http.MethodGet, "/tasks", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodGet, "/gate", "", middleware.SitePasswordHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodGet, "/gate", "", middleware.SitePasswordHeader, "sne")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/tasks", "", middleware.SitePasswordHeader, "sne")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTaskAPI_RateLimit(t *testing.T) {
	e := newTestServer(t, RouteOptions{Limiter: ratelimit.NewMemoryLimiter(2, time.Minute)}, nil)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/tasks", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/tasks", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(e, http.MethodGet, "/tasks", "").Code)
}

func TestTaskAPI_Metrics(t *testing.T) {
	e := newTestServer(t, RouteOptions{Metrics: metrics.New()}, nil)
	createTask(t, e)

	rec := do(e, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `snow_board_task_transitions_total{transition="created"} 1`)
	assert.Contains(t, rec.Body.String(), `snow_board_http_requests_total{method="POST",route="/tasks",status="200"} 1`)
}
