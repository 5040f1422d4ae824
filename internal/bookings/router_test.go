package bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*gin.Engine, *testEnv) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := newTestEnv(t)
	engine := gin.New()
	// A static sibling route proves the fallback coexists with the router tree
	engine.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "healthy"}) })
	SetupBookingRoutes(engine, NewController(env.svc))
	return engine, env
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestConfirmRoute(t *testing.T) {
	engine, env := newTestEngine(t)
	env.seed(t, "A-1")
	holdingID := env.hold(t, "A-1")

	rec, envelope := doJSON(t, engine, http.MethodPost, "/"+holdingID+"/confirm",
		`{"payment_status":"successful"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", envelope["status"])
	assert.Equal(t, "Booking confirmed successfully", envelope["message"])

	data := envelope["data"].(map[string]interface{})
	assert.Contains(t, data["booking_id"], "booking-")
	assert.Equal(t, StateConfirmed, data["state"])
}

func TestConfirmRouteMissingBody(t *testing.T) {
	engine, env := newTestEngine(t)
	env.seed(t, "A-1")
	holdingID := env.hold(t, "A-1")

	rec, envelope := doJSON(t, engine, http.MethodPost, "/"+holdingID+"/confirm", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", envelope["status"])
	assert.Contains(t, envelope["message"], "Payment status must be 'successful' or 'failed'")
}

func TestConfirmRouteUnknownHolding(t *testing.T) {
	engine, env := newTestEngine(t)
	env.seed(t, "A-1")

	rec, envelope := doJSON(t, engine, http.MethodPost, "/holding-missing/confirm",
		`{"payment_status":"successful"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", envelope["status"])
}

func TestCancelRoute(t *testing.T) {
	engine, env := newTestEngine(t)
	env.seed(t, "A-1")
	holdingID := env.hold(t, "A-1")

	confirmed, err := env.svc.ConfirmBooking(context.Background(), holdingID, ConfirmRequest{PaymentStatus: PaymentSuccessful})
	require.NoError(t, err)

	rec, envelope := doJSON(t, engine, http.MethodPost, "/"+confirmed.BookingID+"/cancel", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Booking cancelled successfully", envelope["message"])

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, confirmed.BookingID, data["booking_id"])
}

func TestDispatchRejectsUnknownRoutes(t *testing.T) {
	engine, _ := newTestEngine(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/holding-abc/refund"},
		{http.MethodPost, "/too/many/segments"},
		{http.MethodGet, "/holding-abc/confirm"},
		{http.MethodPost, "/confirm"},
	}

	for _, tt := range tests {
		rec, envelope := doJSON(t, engine, tt.method, tt.path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, "Route not found", envelope["message"], "%s %s", tt.method, tt.path)
	}
}

func TestStaticRoutesUnaffectedByDispatch(t *testing.T) {
	engine, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
