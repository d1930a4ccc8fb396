package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/utils"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid amount", utils.ErrorInvalidAmount, http.StatusBadRequest},
		{"invalid movement", utils.ErrorInvalidMovement, http.StatusBadRequest},
		{"count required", utils.ErrorCountRequired, http.StatusBadRequest},
		{"negative balance", utils.ErrorNegativeBalance, http.StatusBadRequest},
		{"session already open", utils.ErrorSessionAlreadyOpen, http.StatusConflict},
		{"session not open", utils.ErrorSessionNotOpen, http.StatusConflict},
		{"ledger not configured", utils.ErrorLedgerNotConfigured, http.StatusConflict},
		{"duplicate value", utils.ErrorDuplicateValue, http.StatusConflict},
		{"record not found", utils.ErrorRecordNotFound, http.StatusNotFound},
		{"invalid credentials", models.ErrorInvalidCredentials, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodPost, "/cash-register/movements", nil)
			writeError(c, "TestWriteErrorStatusMapping", tc.err)
			if rec.Code != tc.want {
				t.Fatalf("%v mapped to %d, want %d", tc.err, rec.Code, tc.want)
			}
		})
	}
}
