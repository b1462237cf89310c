package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dpup/prefab/logging"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hyugeso/planner/server/internal/lib/export"
)

const maxRequestBytes = 1 << 20

// errorResponse matches what the web client reads on failure.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RouteHandler serves POST /route.
func (s *PlannerService) RouteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, r, http.StatusMethodNotAllowed, errorResponse{
			Error: "method not allowed",
			Code:  codes.Unimplemented.String(),
		})
		return
	}

	var req PlanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, r, status.Errorf(codes.InvalidArgument, "invalid request body: %v", err))
		return
	}

	plan, err := s.Plan(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, plan)
}

// KMLHandler serves GET /api/v1/plan.kml.
func (s *PlannerService) KMLHandler(w http.ResponseWriter, r *http.Request) {
	req, err := planRequestFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	plan, err := s.Plan(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="plan.kml"`)
	name := fmt.Sprintf("%s → %s", req.Start, req.End)
	if err := export.WriteKML(w, name, plan.Route, plan.Timeline); err != nil {
		logging.Errorw(logging.EnsureLogger(r.Context()), "Planner: failed to write KML", "error", err)
	}
}

// GeoJSONHandler serves GET /api/v1/plan.geojson.
func (s *PlannerService) GeoJSONHandler(w http.ResponseWriter, r *http.Request) {
	req, err := planRequestFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	plan, err := s.Plan(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	writeJSON(w, r, http.StatusOK, export.GeoJSON(plan.Route, plan.Timeline))
}

func planRequestFromQuery(r *http.Request) (PlanRequest, error) {
	if r.Method != http.MethodGet {
		return PlanRequest{}, status.Error(codes.InvalidArgument, "only GET is supported")
	}

	q := r.URL.Query()
	req := PlanRequest{Start: q.Get("start"), End: q.Get("end")}

	var err error
	if req.Filters.OnlyBestFood, err = queryFlag(q.Get("best")); err != nil {
		return PlanRequest{}, status.Errorf(codes.InvalidArgument, "best: %v", err)
	}
	if req.Filters.HasEV, err = queryFlag(q.Get("ev")); err != nil {
		return PlanRequest{}, status.Errorf(codes.InvalidArgument, "ev: %v", err)
	}
	if req.Filters.HasGas, err = queryFlag(q.Get("gas")); err != nil {
		return PlanRequest{}, status.Errorf(codes.InvalidArgument, "gas: %v", err)
	}
	return req, nil
}

// queryFlag accepts the same spellings strconv.ParseBool does; empty is false.
func queryFlag(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// writeError maps a gRPC status error onto the HTTP status grpc-gateway would
// use for it.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	st := status.Convert(err)
	httpStatus := runtime.HTTPStatusFromCode(st.Code())
	if httpStatus >= http.StatusInternalServerError {
		logging.Errorw(logging.EnsureLogger(r.Context()), "Planner: request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, r, httpStatus, errorResponse{Error: st.Message(), Code: st.Code().String()})
}

// writeJSON encodes v before sending any headers, so an encoding failure
// becomes a 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, r *http.Request, httpStatus int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logging.Errorw(logging.EnsureLogger(r.Context()), "Planner: failed to encode response", "path", r.URL.Path, "error", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprintf(w, "{\"error\":\"failed to encode response\",\"code\":%q}\n", codes.Internal.String())
		return
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(httpStatus)
	_, _ = w.Write(buf.Bytes())
}
