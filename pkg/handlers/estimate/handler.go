package estimate

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/smustafa75/aws-calc/pkg/adapters"
	"github.com/smustafa75/aws-calc/pkg/models/api"
	"github.com/smustafa75/aws-calc/pkg/models/domain"
	"github.com/smustafa75/aws-calc/pkg/services/estimate"
	"github.com/smustafa75/aws-calc/pkg/services/pricing"
	"github.com/smustafa75/aws-calc/pkg/services/region"
	"github.com/smustafa75/aws-calc/pkg/store/table"
)

const maxBodyBytes = 4 << 20

type Options struct {
	// Defaults fill request fields left empty.
	Defaults domain.QueryParams
	Workers  int
	Timeout  time.Duration
}

type Handler struct {
	lookup pricing.Lookup
	opts   Options
}

func NewHandler(lookup pricing.Lookup, opts Options) *Handler {
	return &Handler{lookup: lookup, opts: opts}
}

func (h *Handler) ListRegions(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	known := region.Known()
	response := make([]api.Region, 0, len(known))
	for _, reg := range known {
		response = append(response, adapters.MapRegionDomainToApi(reg))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode regions")
	}
}

// CreateEstimate prices the posted rows. Every request gets its own resolver,
// so memoized lookups never outlive it.
func (h *Handler) CreateEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.EstimateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := h.params(req)
	resolver := pricing.NewResolver(h.lookup,
		pricing.WithTimeout(h.opts.Timeout),
		pricing.WithMemoization(true))

	est, err := estimate.NewEstimator(resolver, h.opts.Workers).
		Run(ctx, adapters.MapEstimateRequestApiToTable(req), params)
	switch {
	case errors.Is(err, table.ErrMissingColumn):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case pricing.IsTransport(err):
		logger.Error().Err(err).Msg("pricing service failure")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	case err != nil:
		logger.Error().Err(err).Msg("estimate failed")
		http.Error(w, "estimate failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(adapters.MapEstimateDomainToApi(est)); err != nil {
		logger.Error().
			Err(err).
			Str("region", params.Region).
			Msg("failed to encode estimate")
	}
}

func (h *Handler) params(req api.EstimateRequest) domain.QueryParams {
	p := h.opts.Defaults
	if req.Region != "" {
		p.Region = req.Region
	}
	if req.OperatingSystem != "" {
		p.OperatingSystem = req.OperatingSystem
	}
	if req.Tenancy != "" {
		p.Tenancy = req.Tenancy
	}
	return p
}
