package httpgin

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/citybus/internal/clock"
	"github.com/kirinyoku/citybus/internal/flow"
	"github.com/kirinyoku/citybus/internal/metrics"
	"github.com/kirinyoku/citybus/internal/service"
	"github.com/kirinyoku/citybus/internal/session"
)

type testAPI struct {
	t     *testing.T
	r     *gin.Engine
	clock *clock.FakeClock
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.Fake(time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC))

	svcs := service.NewServices(nil, nil, nil, nil, nil, logger, service.Config{
		Sessions: session.Options{Clock: clk},
	})

	return &testAPI{t: t, r: NewRouter(svcs, metrics.New(), logger), clock: clk}
}

func (a *testAPI) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rdr = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	a.r.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) session.View {
	t.Helper()
	var v session.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func (a *testAPI) loggedIn() string {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/sessions", nil)
	require.Equal(a.t, http.StatusCreated, rec.Code)
	id := decodeView(a.t, rec).SessionID

	rec = a.do(http.MethodPost, "/sessions/"+id+"/auth/credentials", CredentialsRequest{Phone: "9876543210"})
	require.Equal(a.t, http.StatusOK, rec.Code)
	rec = a.do(http.MethodPost, "/sessions/"+id+"/auth/code", CodeRequest{Code: "123456"})
	require.Equal(a.t, http.StatusOK, rec.Code)
	require.Equal(a.t, flow.ScreenDetecting, decodeView(a.t, rec).Screen)

	a.clock.Advance(2 * time.Second)

	return id
}

func TestRouter_Healthz(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_BookingJourney(t *testing.T) {
	a := newTestAPI(t)
	id := a.loggedIn()
	base := "/sessions/" + id

	rec := a.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, flow.ScreenBuses, v.Screen)
	require.Len(t, v.Buses, 3)
	assert.Equal(t, "On Time", v.Buses[0].StatusLabel)
	assert.True(t, v.Buses[1].Crowded)

	rec = a.do(http.MethodPost, base+"/buses/1/select", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeView(t, rec)
	assert.Equal(t, flow.ScreenSeats, v.Screen)
	assert.Len(t, v.Seats, 40)

	rec = a.do(http.MethodPost, base+"/seats/5/toggle", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "seats", decodeErr(t, rec).Screen)

	rec = a.do(http.MethodPost, base+"/seats/27/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 27, decodeView(t, rec).SelectedSeat)

	rec = a.do(http.MethodPost, base+"/seats/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeView(t, rec)
	assert.Equal(t, flow.ScreenReview, v.Screen)
	assert.Equal(t, 25, v.Fare)

	rec = a.do(http.MethodPost, base+"/booking/confirm", nil, "Idempotency-Key", "abc")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "abc", rec.Header().Get("Idempotency-Key"))
	assert.Equal(t, flow.ScreenProcessing, decodeView(t, rec).Screen)

	rec = a.do(http.MethodGet, base+"/ticket", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	a.clock.Advance(1500 * time.Millisecond)

	rec = a.do(http.MethodGet, base, nil)
	v = decodeView(t, rec)
	require.Equal(t, flow.ScreenConfirmed, v.Screen)
	require.NotNil(t, v.Booking)
	assert.Regexp(t, `^CTB\d{6}$`, v.Booking.ID)
	assert.Equal(t, "9876543210", v.Booking.Passenger.Phone)

	rec = a.do(http.MethodGet, base+"/ticket", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), v.Booking.ID)

	rec = a.do(http.MethodGet, base+"/ticket/share", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var share ShareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &share))
	assert.Contains(t, share.Text, v.Booking.ID)

	rec = a.do(http.MethodPost, base+"/home", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeView(t, rec)
	assert.Equal(t, flow.ScreenCredentials, v.Screen)
	assert.Nil(t, v.User)
}

func TestRouter_ValidationErrors(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPost, "/sessions", nil)
	id := decodeView(t, rec).SessionID
	base := "/sessions/" + id

	rec = a.do(http.MethodPost, base+"/auth/credentials", CredentialsRequest{Mode: "signup", Phone: "9876543210"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, flow.ErrNameRequired.Error(), decodeErr(t, rec).Error)

	rec = a.do(http.MethodPost, base+"/auth/credentials", CredentialsRequest{Mode: "guest", Phone: "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, base+"/seats/abc/toggle", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, base+"/seats/confirm", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "credentials", decodeErr(t, rec).Screen)
}

func TestRouter_UnknownSession(t *testing.T) {
	a := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/sessions/nope"},
		{http.MethodDelete, "/sessions/nope"},
		{http.MethodPost, "/sessions/nope/back"},
		{http.MethodGet, "/sessions/nope/ticket"},
	} {
		rec := a.do(tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
	}
}

func TestRouter_EndSessionStopsDiscovery(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPost, "/sessions", nil)
	id := decodeView(t, rec).SessionID
	a.do(http.MethodPost, "/sessions/"+id+"/auth/credentials", CredentialsRequest{Phone: "9876543210"})
	a.do(http.MethodPost, "/sessions/"+id+"/auth/code", CodeRequest{Code: "1"})

	rec = a.do(http.MethodDelete, "/sessions/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, 0, a.clock.Pending())
}

func TestRouter_LocationETag(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/catalog/location", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tag := rec.Header().Get("ETag")
	require.NotEmpty(t, tag)
	assert.Contains(t, rec.Body.String(), "18C")

	rec = a.do(http.MethodGet, "/catalog/location", nil, "If-None-Match", tag)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRouter_SeedRejectsInvalidCatalog(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPost, "/admin/catalog/seed", map[string]any{"name": "", "area": "x"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	a := newTestAPI(t)
	a.do(http.MethodGet, "/healthz", nil)

	rec := a.do(http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `citybus_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func TestEtagMatches(t *testing.T) {
	assert.False(t, etagMatches("", `"a"`))
	assert.True(t, etagMatches("*", `"a"`))
	assert.True(t, etagMatches(`"b", "a"`, `"a"`))
	assert.False(t, etagMatches(`"b"`, `"a"`))
}
