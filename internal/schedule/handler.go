package schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/wodcycle/internal/periodization"
	"github.com/2beens/wodcycle/internal/telemetry/tracing"
	"github.com/2beens/wodcycle/pkg"

	"cloud.google.com/go/civil"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=schedule_test

type projector interface {
	Project(ctx context.Context, start civil.Date, n int) ([]ProjectedDay, error)
	ProjectDay(ctx context.Context, date civil.Date) (ProjectedDay, error)
}

type Handler struct {
	projector   projector
	location    *time.Location
	previewDays int
	// overridable for tests
	Now func() time.Time
}

func NewHandler(projector projector, location *time.Location, previewDays int) *Handler {
	if previewDays <= 0 {
		previewDays = 3
	}
	return &Handler{
		projector:   projector,
		location:    location,
		previewDays: previewDays,
		Now:         time.Now,
	}
}

// HandlePreview projects the upcoming days, starting tomorrow unless "from" is given.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.schedule.preview")
	defer span.End()

	from := periodization.CivilDateIn(h.Now(), h.location).AddDays(1)
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		var err error
		if from, err = civil.ParseDate(fromStr); err != nil {
			http.Error(w, "error, invalid from date", http.StatusBadRequest)
			return
		}
	}

	days := h.previewDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		var err error
		days, err = strconv.Atoi(daysStr)
		if err != nil || days < 1 || days > MaxProjectionDays {
			http.Error(w, "error, days must be in [1, 84]", http.StatusBadRequest)
			return
		}
	}

	projected, err := h.projector.Project(ctx, from, days)
	if err != nil {
		log.Errorf("project %d days from %s: %s", days, from, err)
		http.Error(w, "preview failed", http.StatusInternalServerError)
		return
	}

	projectedJson, err := json.Marshal(projected)
	if err != nil {
		log.Errorf("marshal projection: %s", err)
		http.Error(w, "preview failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, projectedJson)
}

func (h *Handler) HandleDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.schedule.day")
	defer span.End()

	date, err := civil.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		http.Error(w, "error, invalid date", http.StatusBadRequest)
		return
	}

	day, err := h.projector.ProjectDay(ctx, date)
	if err != nil {
		log.Errorf("project day %s: %s", date, err)
		http.Error(w, "project day failed", http.StatusInternalServerError)
		return
	}

	dayJson, err := json.Marshal(day)
	if err != nil {
		log.Errorf("marshal projected day: %s", err)
		http.Error(w, "project day failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, dayJson)
}
