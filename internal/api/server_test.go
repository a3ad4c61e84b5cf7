package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/oea-pipeline/internal/config"
	"github.com/vfg2006/oea-pipeline/internal/domain"
	authmocks "github.com/vfg2006/oea-pipeline/internal/usecases/authenticating/mocks"
	"github.com/vfg2006/oea-pipeline/pkg/log"
)

type stubScheduler struct {
	triggered bool
}

func (s *stubScheduler) TriggerManualSync() bool {
	s.triggered = true
	return true
}

func (s *stubScheduler) GetStatus(context.Context) domain.PipelineStatus {
	return domain.PipelineStatus{Schedule: "0 6 * * *"}
}

func testConfig() *config.Config {
	return &config.Config{Server: config.Server{Host: "127.0.0.1", Port: "0"}}
}

func TestNewHandler_RequiresTokenForCron(t *testing.T) {
	log.SetupTestLogger()
	ctrl := gomock.NewController(t)
	auth := authmocks.NewMockAuthenticator(ctrl)
	sched := &stubScheduler{}

	h := NewHandler(testConfig(), auth, sched)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/cron/pipeline/run", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, sched.triggered)

	auth.EXPECT().ValidateToken("tok").Return(&domain.Claims{UserName: "admin", UserRoleID: domain.RoleAdmin}, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/cron/pipeline/run", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, sched.triggered)
}

func TestNewHandler_PublicRoutes(t *testing.T) {
	log.SetupTestLogger()
	ctrl := gomock.NewController(t)
	h := NewHandler(testConfig(), authmocks.NewMockAuthenticator(ctrl), &stubScheduler{})

	for _, path := range []string{"/healthcheck", "/metrics"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	log.SetupTestLogger()
	ctrl := gomock.NewController(t)
	srv, err := New(testConfig(), authmocks.NewMockAuthenticator(ctrl), &stubScheduler{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, srv.Run(ctx))
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(testConfig(), nil, nil)
	assert.Error(t, err)
}
