package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/courtedge/features-api/internal/logic"
	"github.com/courtedge/features-api/internal/models"
)

// QueryFeatures handles POST /api/v1/features/query. It computes the
// point-in-time feature vector for an upcoming matchup against the snapshot
// currently serving.
func (h *Handler) QueryFeatures(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()

	var req models.FeatureQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}

	resp, err := h.liveFeatures.GetFeatures(r.Context(), req)
	if err != nil {
		h.featureError(w, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, resp)
}

// GetMatchup handles GET /api/v1/features/matchup, the query-string variant
// of QueryFeatures for quick market scans and manual checks.
func (h *Handler) GetMatchup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	p1, err := strconv.ParseInt(q.Get("p1"), 10, 64)
	if err != nil || p1 <= 0 {
		h.errorResponse(w, http.StatusBadRequest, "p1 must be a positive player id")
		return
	}
	p2, err := strconv.ParseInt(q.Get("p2"), 10, 64)
	if err != nil || p2 <= 0 {
		h.errorResponse(w, http.StatusBadRequest, "p2 must be a positive player id")
		return
	}

	req := models.FeatureQueryRequest{
		P1ID:        p1,
		P2ID:        p2,
		Surface:     q.Get("surface"),
		TourneyName: q.Get("tourney_name"),
		MatchDate:   q.Get("date"),
	}

	resp, err := h.liveFeatures.GetFeatures(r.Context(), req)
	if err != nil {
		h.featureError(w, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, resp)
}

// GetAggregate handles GET /api/v1/features/aggregate. It groups the
// published feature table by a whitelisted dimension, e.g.
// ?dimension=surface&metric=p1_win_rate.
func (h *Handler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := models.AggregateRequest{
		Dimension: q.Get("dimension"),
		Metric:    q.Get("metric"),
		Surface:   q.Get("surface"),
	}

	if raw := q.Get("from"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.errorResponse(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		req.StartDate = d
	}
	if raw := q.Get("to"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.errorResponse(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return
		}
		req.EndDate = d
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.errorResponse(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		req.Limit = n
	}

	rows, err := h.featureTable.Aggregate(r.Context(), req)
	if err != nil {
		if errors.Is(err, logic.ErrInvalidQuery) {
			h.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Errorw("Failed to aggregate feature table", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to aggregate feature table")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"dimension": req.Dimension,
		"metric":    req.Metric,
		"rows":      rows,
	})
}

// GetSnapshot handles GET /api/v1/snapshot: which snapshot is serving, what
// the last batch replay published, and the current shape of the feature
// table.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := map[string]interface{}{
		"snapshot":   nil,
		"watermark":  nil,
		"tableStats": nil,
	}

	if info, err := h.liveFeatures.Snapshot(); err == nil {
		resp["snapshot"] = info
	} else if !errors.Is(err, logic.ErrSnapshotNotReady) {
		h.logger.Errorw("Failed to read snapshot info", "error", err)
	}

	if h.redis != nil {
		wm, err := logic.ReadWatermark(ctx, h.redis)
		switch {
		case err == nil:
			resp["watermark"] = wm
		case !errors.Is(err, logic.ErrNoWatermark):
			h.logger.Warnw("Failed to read replay watermark", "error", err)
		}
	}

	if h.featureTable != nil {
		stats, err := h.featureTable.Stats(ctx)
		if err != nil {
			h.logger.Warnw("Failed to read feature table stats", "error", err)
		} else {
			resp["tableStats"] = stats
		}
	}

	h.jsonResponse(w, http.StatusOK, resp)
}

func (h *Handler) featureError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, logic.ErrSnapshotNotReady):
		h.errorResponse(w, http.StatusServiceUnavailable, "Feature snapshot not built yet")
	case errors.Is(err, logic.ErrInvalidQuery):
		h.errorResponse(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Errorw("Failed to compute features", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to compute features")
	}
}
