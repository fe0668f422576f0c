package overrides

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/wodcycle/internal/periodization"
	"github.com/2beens/wodcycle/internal/telemetry/metrics"
	"github.com/2beens/wodcycle/internal/telemetry/tracing"
	"github.com/2beens/wodcycle/pkg"

	"cloud.google.com/go/civil"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const defaultListDays = periodization.CycleLength

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=overrides_test

type overridesStore interface {
	Get(ctx context.Context, date civil.Date) (*ManualOverride, error)
	Set(ctx context.Context, override ManualOverride) error
	Remove(ctx context.Context, date civil.Date) error
	List(ctx context.Context, from, to civil.Date) ([]ManualOverride, error)
}

type OverrideResponse struct {
	Override  *ManualOverride         `json:"override"`
	Resolved  periodization.CycleDay `json:"resolved"`
	Effective Effective              `json:"effective"`
}

type RemoveResponse struct {
	Removed civil.Date `json:"removed"`
}

type Handler struct {
	store    overridesStore
	metrics  *metrics.Manager
	location *time.Location
	// overridable for tests
	Now func() time.Time
}

func NewHandler(store overridesStore, metrics *metrics.Manager, location *time.Location) *Handler {
	return &Handler{
		store:    store,
		metrics:  metrics,
		location: location,
		Now:      time.Now,
	}
}

func (h *Handler) today() civil.Date {
	return periodization.CivilDateIn(h.Now(), h.location)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.overrides.list")
	defer span.End()

	from := h.today()
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		var err error
		if from, err = civil.ParseDate(fromStr); err != nil {
			http.Error(w, "error, invalid from date", http.StatusBadRequest)
			return
		}
	}
	to := from.AddDays(defaultListDays - 1)
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		var err error
		if to, err = civil.ParseDate(toStr); err != nil {
			http.Error(w, "error, invalid to date", http.StatusBadRequest)
			return
		}
	}
	if to.Before(from) {
		http.Error(w, "error, to date before from date", http.StatusBadRequest)
		return
	}

	list, err := h.store.List(ctx, from, to)
	if err != nil {
		log.Errorf("list overrides [%s, %s]: %s", from, to, err)
		http.Error(w, "list overrides failed", http.StatusInternalServerError)
		return
	}

	listJson, err := json.Marshal(list)
	if err != nil {
		log.Errorf("marshal overrides: %s", err)
		http.Error(w, "list overrides failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listJson)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.overrides.get")
	defer span.End()

	date, err := civil.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		http.Error(w, "error, invalid date", http.StatusBadRequest)
		return
	}

	o, err := h.store.Get(ctx, date)
	if err != nil {
		log.Errorf("get override %s: %s", date, err)
		http.Error(w, "get override failed", http.StatusInternalServerError)
		return
	}
	if o == nil {
		http.Error(w, "override not found", http.StatusNotFound)
		return
	}

	h.writeOverride(w, *o, http.StatusOK)
}

func (h *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.overrides.put")
	defer span.End()

	if !pkg.IsJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	date, err := civil.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		http.Error(w, "error, invalid date", http.StatusBadRequest)
		return
	}
	if date.Before(h.today()) {
		http.Error(w, "error, cannot override a past date", http.StatusBadRequest)
		return
	}

	var o ManualOverride
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		log.Errorf("put override, unmarshal json params: %s", err)
		http.Error(w, "put override failed", http.StatusBadRequest)
		return
	}
	if !o.Date.IsZero() && o.Date != date {
		http.Error(w, "error, body date does not match path date", http.StatusBadRequest)
		return
	}
	o.Date = date

	if err := o.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	o.UpdatedAt = h.Now()
	if err := h.store.Set(ctx, o); err != nil {
		log.Errorf("set override %s: %s", date, err)
		http.Error(w, "put override failed", http.StatusInternalServerError)
		return
	}
	h.metrics.CounterOverrideWrites.WithLabelValues("set").Inc()

	log.Debugf("override set for %s: %+v", date, o)
	h.writeOverride(w, o, http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.overrides.delete")
	defer span.End()

	date, err := civil.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		http.Error(w, "error, invalid date", http.StatusBadRequest)
		return
	}

	if err := h.store.Remove(ctx, date); err != nil {
		if errors.Is(err, ErrOverrideNotFound) {
			http.Error(w, "override not found", http.StatusNotFound)
			return
		}
		log.Errorf("remove override %s: %s", date, err)
		http.Error(w, "remove override failed", http.StatusInternalServerError)
		return
	}
	h.metrics.CounterOverrideWrites.WithLabelValues("remove").Inc()

	respJson, err := json.Marshal(RemoveResponse{Removed: date})
	if err != nil {
		log.Errorf("marshal remove response: %s", err)
		http.Error(w, "remove override failed", http.StatusInternalServerError)
		return
	}
	log.Debugf("override removed for %s", date)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (h *Handler) writeOverride(w http.ResponseWriter, o ManualOverride, statusCode int) {
	resolved := periodization.Resolve(o.Date)
	resp := OverrideResponse{
		Override:  &o,
		Resolved:  resolved,
		Effective: Merge(resolved, &o),
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal override response: %s", err)
		http.Error(w, "marshal override failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, statusCode)
}
