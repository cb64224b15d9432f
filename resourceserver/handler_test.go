package resourceserver

import (
	"bytes"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dataproxy/logger"
)

func TestHandler_FailHidesUnexpectedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	h := &handler{store: NewStore(), log: logger.NewWithWriter(&logs, &logger.Config{Level: "error", Format: "json"}, serviceName)}

	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/customers", http.NoBody)
	h.fail(c, stderrors.New("disk on fire"))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
	if body := rr.Body.String(); strings.Contains(body, "disk on fire") || body == "" {
		t.Errorf("response should carry a generic message, got %q", body)
	}
	if !strings.Contains(logs.String(), "disk on fire") {
		t.Errorf("cause should be logged, got %q", logs.String())
	}
}

func TestHandler_FailMapsStoreErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &handler{store: NewStore(), log: logger.Nop()}

	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodPut, "/customers/1", http.NoBody)
	h.fail(c, &storeError{status: http.StatusConflict, msg: MsgConflict})

	if rr.Code != http.StatusConflict || rr.Body.String() != MsgConflict {
		t.Errorf("expected 409 %q, got %d %q", MsgConflict, rr.Code, rr.Body.String())
	}
}
