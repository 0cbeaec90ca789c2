package httpkit

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sms_relay_backend/platform/apperr"
	"sms_relay_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type teapotError struct{}

func (teapotError) Error() string   { return "short and stout" }
func (teapotError) HTTPStatus() int { return http.StatusTeapot }

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorTextUsesStatusCoder(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if !HandleErrorText(c, teapotError{}) {
		t.Fatal("expected error to be handled")
	}
	if w.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", w.Code)
	}
	if w.Body.String() != "short and stout" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestHandleErrorJSONForDomainError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleError(c, apperr.Unavailable("provider down", errors.New("dial tcp")))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error":"provider down"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestHandleErrorNil(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if HandleError(c, nil) || HandleErrorText(c, nil) {
		t.Fatal("nil errors must not be handled")
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)

	engine := gin.New()
	engine.Use(RequestID(), RequestLogger(log))
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestIDKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Body.String() != "req-123" {
		t.Fatalf("expected inbound request ID to be reused, got %q", w.Body.String())
	}
	if w.Header().Get(HeaderRequestID) != "req-123" {
		t.Fatal("expected request ID response header")
	}
	if !strings.Contains(buf.String(), `"request_id":"req-123"`) {
		t.Fatalf("expected request log to carry request_id, got %s", buf.String())
	}
}

func TestRequestIDIsGenerated(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if len(w.Header().Get(HeaderRequestID)) != 36 {
		t.Fatalf("expected generated UUID, got %q", w.Header().Get(HeaderRequestID))
	}
}
