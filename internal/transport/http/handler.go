package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/KaramelBytes/enrollboard/internal/dashboard"
	"github.com/KaramelBytes/enrollboard/internal/dataset"
	"github.com/KaramelBytes/enrollboard/internal/metrics"
)

// DatasetStore is the read/reload surface the handlers need.
type DatasetStore interface {
	Current() *dataset.Dataset
	Reload(ctx context.Context) *dataset.Dataset
}

// Handler serves the catalog, dashboard and reload endpoints.
type Handler struct {
	store    DatasetStore
	metrics  *metrics.Metrics
	logger   *zap.Logger
	validate *validator.Validate
}

// NewHandler wires the handler. m and logger may be nil.
func NewHandler(store DatasetStore, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:    store,
		metrics:  m,
		logger:   logger.With(zap.String("component", "dashboard_handler")),
		validate: newValidator(),
	}
}

// CatalogResponse describes the served dataset and its filter options.
type CatalogResponse struct {
	DatasetID   string          `json:"dataset_id"`
	Source      string          `json:"source"`
	LoadedAt    time.Time       `json:"loaded_at"`
	Records     int             `json:"records"`
	Years       []int           `json:"years"`
	Departments []string        `json:"departments"`
	Tabs        []dashboard.Tab `json:"tabs"`
}

func catalogOf(ds *dataset.Dataset) CatalogResponse {
	c := ds.Catalog()
	return CatalogResponse{
		DatasetID:   ds.ID,
		Source:      ds.Source,
		LoadedAt:    ds.LoadedAt,
		Records:     ds.Len(),
		Years:       c.Years,
		Departments: c.Departments,
		Tabs:        dashboard.Tabs(),
	}
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ds := h.store.Current()
	render.JSON(w, r, map[string]any{
		"status":     "ok",
		"dataset_id": ds.ID,
		"records":    ds.Len(),
	})
}

// Catalog handles GET /api/catalog
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, catalogOf(h.store.Current()))
}

// dashboardQuery is the raw query string of GET /api/dashboard.
type dashboardQuery struct {
	Tab         string   `validate:"omitempty,tab"`
	Year        string   `validate:"omitempty,number,max=9"`
	Departments []string `validate:"max=64,dive,required,max=128"`
	Gender      string   `validate:"omitempty,gender"`
}

// Dashboard handles GET /api/dashboard?tab=&year=&department=&gender=
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := dashboardQuery{
		Tab:         q.Get("tab"),
		Year:        q.Get("year"),
		Departments: q["department"],
		Gender:      q.Get("gender"),
	}
	if err := h.validate.Struct(in); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	tab, err := dashboard.ParseTab(in.Tab)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	gender, err := dataset.ParseGender(in.Gender)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	filter := dataset.FilterState{Departments: in.Departments, Gender: gender}
	if in.Year != "" {
		y, err := strconv.Atoi(in.Year)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "year must be an integer")
			return
		}
		filter = filter.WithYear(y)
	}

	start := time.Now()
	bundle, err := dashboard.Build(h.store.Current(), tab, filter)
	if err != nil {
		if errors.Is(err, dashboard.ErrUnknownTab) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("build dashboard", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	h.metrics.ObserveDashboard(string(tab), time.Since(start))
	render.JSON(w, r, bundle)
}

// Reload handles POST /api/reload
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	// a client hanging up must not cancel a load other callers may be sharing
	ds := h.store.Reload(context.WithoutCancel(r.Context()))
	h.logger.Info("dataset reloaded via api",
		zap.String("dataset_id", ds.ID),
		zap.Int("records", ds.Len()),
	)
	render.JSON(w, r, catalogOf(ds))
}
