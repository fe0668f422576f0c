package overrides_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/2beens/wodcycle/internal/overrides"
	"github.com/2beens/wodcycle/internal/periodization"
	"github.com/2beens/wodcycle/internal/telemetry/metrics"

	"cloud.google.com/go/civil"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	// 2025-03-01, day 4 of cycle 3
	testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	// day 1 (cardio) of cycle 4
	cardioDate = civil.Date{Year: 2025, Month: 3, Day: 26}
)

func newTestHandler(t *testing.T) (*overrides.Handler, *MockoverridesStore, *metrics.Manager) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := NewMockoverridesStore(ctrl)
	m := metrics.NewTestManager()
	handler := overrides.NewHandler(store, m, time.UTC)
	handler.Now = func() time.Time { return testNow }
	return handler, store, m
}

func newDateRequest(t *testing.T, method, date, body string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, "/overrides/"+date, strings.NewReader(body))
	require.NoError(t, err)
	return mux.SetURLVars(req, map[string]string{"date": date})
}

func TestHandler_HandleGet(t *testing.T) {
	handler, store, _ := newTestHandler(t)

	o := &overrides.ManualOverride{
		Date:            cardioDate,
		Format:          overrides.Value(periodization.FormatTabata),
		DifficultyStars: overrides.Value(5),
	}
	store.EXPECT().Get(gomock.Any(), cardioDate).Return(o, nil)

	rr := httptest.NewRecorder()
	handler.HandleGet(rr, newDateRequest(t, http.MethodGet, "2025-03-26", ""))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp overrides.OverrideResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Resolved.DayInCycle)
	assert.Equal(t, 4, resp.Resolved.CycleNumber)
	assert.Equal(t, periodization.CategoryCardio, resp.Effective.Category)
	require.NotNil(t, resp.Effective.Format)
	assert.Equal(t, periodization.FormatTabata, *resp.Effective.Format)
	assert.Equal(t, "Advanced (5★)", resp.Effective.DifficultyLabel)
	assert.True(t, resp.Effective.Overridden)
}

func TestHandler_HandleGet_Errors(t *testing.T) {
	handler, store, _ := newTestHandler(t)

	rr := httptest.NewRecorder()
	handler.HandleGet(rr, newDateRequest(t, http.MethodGet, "2025-13-01", ""))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	store.EXPECT().Get(gomock.Any(), cardioDate).Return(nil, nil)
	rr = httptest.NewRecorder()
	handler.HandleGet(rr, newDateRequest(t, http.MethodGet, "2025-03-26", ""))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	store.EXPECT().Get(gomock.Any(), cardioDate).Return(nil, errors.New("redis down"))
	rr = httptest.NewRecorder()
	handler.HandleGet(rr, newDateRequest(t, http.MethodGet, "2025-03-26", ""))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_HandlePut(t *testing.T) {
	handler, store, m := newTestHandler(t)

	var stored overrides.ManualOverride
	store.EXPECT().
		Set(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o overrides.ManualOverride) error {
			stored = o
			return nil
		})

	req := newDateRequest(t, http.MethodPut, "2025-03-26", `{"format":"tabata","difficultyStars":null,"note":"team event"}`)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rr := httptest.NewRecorder()
	handler.HandlePut(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assert.Equal(t, cardioDate, stored.Date)
	assert.Equal(t, testNow, stored.UpdatedAt)
	assert.Equal(t, "team event", stored.Note)
	assert.True(t, stored.DifficultyStars.IsNull())
	assert.False(t, stored.Category.IsSet())

	var resp overrides.OverrideResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []periodization.Format{periodization.FormatTabata}, resp.Effective.FormatChoices)
	assert.Nil(t, resp.Effective.Difficulty)
	assert.Empty(t, resp.Effective.DifficultyLabel)
	// the calendar itself is untouched
	require.NotNil(t, resp.Resolved.Difficulty)
	assert.Equal(t, periodization.Intermediate, *resp.Resolved.Difficulty)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterOverrideWrites.WithLabelValues("set")))
}

func TestHandler_HandlePut_BadRequests(t *testing.T) {
	handler, store, _ := newTestHandler(t)

	testCases := []struct {
		name        string
		date        string
		contentType string
		body        string
	}{
		{name: "WrongContentType", date: "2025-03-26", contentType: "text/plain", body: `{"format":"tabata"}`},
		{name: "InvalidDate", date: "26.03.2025", contentType: "application/json", body: `{"format":"tabata"}`},
		{name: "PastDate", date: "2025-02-28", contentType: "application/json", body: `{"format":"tabata"}`},
		{name: "MalformedBody", date: "2025-03-26", contentType: "application/json", body: `{"format":`},
		{name: "DateMismatch", date: "2025-03-26", contentType: "application/json", body: `{"date":"2025-03-27","format":"tabata"}`},
		{name: "EmptyOverride", date: "2025-03-26", contentType: "application/json", body: `{"note":"nothing"}`},
		{name: "StarsOutOfRange", date: "2025-03-26", contentType: "application/json", body: `{"difficultyStars":9}`},
		{name: "FormatNotAllowed", date: "2025-03-26", contentType: "application/json", body: `{"format":"reps_and_sets"}`},
		{name: "UnknownCategory", date: "2025-03-26", contentType: "application/json", body: `{"category":"yoga"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := newDateRequest(t, http.MethodPut, tc.date, tc.body)
			req.Header.Set("Content-Type", tc.contentType)
			rr := httptest.NewRecorder()
			handler.HandlePut(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	// today is still writable, the store failing is a server error
	store.EXPECT().Set(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
	req := newDateRequest(t, http.MethodPut, "2025-03-01", `{"difficultyStars":2}`)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.HandlePut(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_HandleDelete(t *testing.T) {
	handler, store, m := newTestHandler(t)

	store.EXPECT().Remove(gomock.Any(), cardioDate).Return(nil)
	rr := httptest.NewRecorder()
	handler.HandleDelete(rr, newDateRequest(t, http.MethodDelete, "2025-03-26", ""))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"removed":"2025-03-26"}`, rr.Body.String())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterOverrideWrites.WithLabelValues("remove")))

	store.EXPECT().Remove(gomock.Any(), cardioDate).Return(overrides.ErrOverrideNotFound)
	rr = httptest.NewRecorder()
	handler.HandleDelete(rr, newDateRequest(t, http.MethodDelete, "2025-03-26", ""))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	store.EXPECT().Remove(gomock.Any(), cardioDate).Return(errors.New("db down"))
	rr = httptest.NewRecorder()
	handler.HandleDelete(rr, newDateRequest(t, http.MethodDelete, "2025-03-26", ""))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_HandleList(t *testing.T) {
	handler, store, _ := newTestHandler(t)

	today := civil.Date{Year: 2025, Month: 3, Day: 1}
	store.EXPECT().
		List(gomock.Any(), today, today.AddDays(27)).
		Return([]overrides.ManualOverride{
			{Date: cardioDate, Format: overrides.Value(periodization.FormatEMOM)},
		}, nil)

	req, err := http.NewRequest(http.MethodGet, "/overrides", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	handler.HandleList(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var list []overrides.ManualOverride
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, cardioDate, list[0].Date)

	from := civil.Date{Year: 2025, Month: 4, Day: 1}
	to := civil.Date{Year: 2025, Month: 4, Day: 30}
	store.EXPECT().List(gomock.Any(), from, to).Return([]overrides.ManualOverride{}, nil)
	req, err = http.NewRequest(http.MethodGet, "/overrides?from=2025-04-01&to=2025-04-30", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	handler.HandleList(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())

	req, err = http.NewRequest(http.MethodGet, "/overrides?from=2025-04-30&to=2025-04-01", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	handler.HandleList(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req, err = http.NewRequest(http.MethodGet, "/overrides?from=april", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	handler.HandleList(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
