package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appintegration "github.com/pharmadash/backend/internal/application/integration"
	"github.com/pharmadash/backend/internal/infrastructure/scheduler"
	"github.com/pharmadash/backend/internal/interfaces/http/dto"
)

type mockSyncControl struct {
	mock.Mock
}

func (m *mockSyncControl) TriggerManualRun(ctx context.Context) (appintegration.RunReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(appintegration.RunReport), args.Error(1)
}

func (m *mockSyncControl) Status() scheduler.Status {
	return m.Called().Get(0).(scheduler.Status)
}

func performRequest(t *testing.T, router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func newSyncRouter(control SyncControl) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSyncHandler(control, zap.NewNop())
	r.POST("/api/sync/trigger", h.Trigger)
	r.GET("/api/sync/status", h.Status)
	return r
}

func TestSyncHandler_Trigger(t *testing.T) {
	t.Run("accepted with the run report", func(t *testing.T) {
		control := new(mockSyncControl)
		control.On("TriggerManualRun", mock.Anything).Return(appintegration.RunReport{
			Orders: appintegration.OrderLegReport{Result: &appintegration.OrderSyncResult{Imported: 3}},
		}, nil)

		rec := performRequest(t, newSyncRouter(control), http.MethodPost, "/api/sync/trigger")
		assert.Equal(t, http.StatusAccepted, rec.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	})

	t.Run("conflict while a run is in progress", func(t *testing.T) {
		control := new(mockSyncControl)
		control.On("TriggerManualRun", mock.Anything).Return(appintegration.RunReport{}, scheduler.ErrRunInProgress)

		rec := performRequest(t, newSyncRouter(control), http.MethodPost, "/api/sync/trigger")
		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeSyncInProgress, resp.Error.Code)
	})
}

func TestSyncHandler_Status(t *testing.T) {
	control := new(mockSyncControl)
	control.On("Status").Return(scheduler.Status{
		IsRunning: true,
		Schedule:  "*/5 * * * *",
		Timezone:  "Europe/Moscow",
	})

	rec := performRequest(t, newSyncRouter(control), http.MethodGet, "/api/sync/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "*/5 * * * *")
}
