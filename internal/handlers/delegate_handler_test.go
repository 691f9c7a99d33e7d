package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incvoting/voting-api/internal/domain/delegate"
	"github.com/incvoting/voting-api/internal/qr"
	"github.com/incvoting/voting-api/internal/services"
)

// qrStoreStub fails a fixed number of saves before succeeding so the batch
// endpoint can be exercised with partial failures.
type qrStoreStub struct {
	mu       sync.Mutex
	failures int
	saved    map[string]bool
}

func newQRStoreStub(failures int) *qrStoreStub {
	return &qrStoreStub{failures: failures, saved: make(map[string]bool)}
}

func (s *qrStoreStub) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return "", fmt.Errorf("store write failed")
	}
	s.saved[name] = true
	return "/qr-codes/" + name, nil
}

func (s *qrStoreStub) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[name], nil
}

func (s *qrStoreStub) URL(name string) string {
	return "/qr-codes/" + name
}

type qrBatchBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Generated int               `json:"generated"`
		Failed    int               `json:"failed"`
		Codes     map[string]string `json:"codes"`
	} `json:"data"`
}

func newQRRouterFixture(t *testing.T, store *qrStoreStub, delegateCount int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMemDelegateRepo()
	for i := 0; i < delegateCount; i++ {
		d := delegate.New(fmt.Sprintf("Delegate %d", i+1), "", "", "CENTRAL ZONE", "", "")
		require.NoError(t, repo.Create(d))
	}

	gen := qr.NewGenerator("https://vote.example.com", store)
	handler := NewDelegateHandler(services.NewDelegateService(repo, gen))

	router := gin.New()
	router.POST("/api/admin/qr-codes/generate", handler.QRCodeAll)
	return router
}

func postQRBatch(t *testing.T, router *gin.Engine) (*httptest.ResponseRecorder, qrBatchBody) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/qr-codes/generate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body qrBatchBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestQRCodeBatchEndpoint(t *testing.T) {
	router := newQRRouterFixture(t, newQRStoreStub(0), 3)

	w, body := postQRBatch(t, router)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, body.Data.Generated)
	assert.Zero(t, body.Data.Failed)
	assert.Len(t, body.Data.Codes, 3)
}

func TestQRCodeBatchEndpointReportsPartialFailure(t *testing.T) {
	router := newQRRouterFixture(t, newQRStoreStub(1), 3)

	w, body := postQRBatch(t, router)
	assert.Equal(t, http.StatusMultiStatus, w.Code)
	assert.Equal(t, 2, body.Data.Generated)
	assert.Equal(t, 1, body.Data.Failed)
	assert.Len(t, body.Data.Codes, 2)
}

func TestQRCodeBatchEndpointTotalFailure(t *testing.T) {
	router := newQRRouterFixture(t, newQRStoreStub(3), 3)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/qr-codes/generate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
