package system

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkkaiser/competitor-dashboard/internal/pkg/version"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/constants"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) Health(ctx context.Context) error { return f(ctx) }

func call(t *testing.T, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	return rec
}

func TestHealthCheckHandler(t *testing.T) {
	t.Run("정상", func(t *testing.T) {
		h := NewHandler(map[string]HealthChecker{
			constants.DependencySessionStore: checkerFunc(func(context.Context) error { return nil }),
		}, version.Info{})

		rec := call(t, h.HealthCheckHandler)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp response.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, constants.HealthStatusHealthy, resp.Status)
		assert.Equal(t, constants.HealthStatusHealthy, resp.Dependencies[constants.DependencySessionStore].Status)
	})

	t.Run("의존 서비스 이상", func(t *testing.T) {
		h := NewHandler(map[string]HealthChecker{
			constants.DependencySessionStore: checkerFunc(func(context.Context) error { return errors.New("redis down") }),
		}, version.Info{})

		rec := call(t, h.HealthCheckHandler)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp response.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, constants.HealthStatusUnhealthy, resp.Status)
		assert.Equal(t, "redis down", resp.Dependencies[constants.DependencySessionStore].Message)
	})
}

func TestVersionHandler(t *testing.T) {
	h := NewHandler(nil, version.Info{Version: "v1.2.0", Commit: "abc"})

	rec := call(t, h.VersionHandler)
	assert.Equal(t, http.StatusOK, rec.Code)

	var info version.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "v1.2.0", info.Version)
}
