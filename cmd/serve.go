package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/truevizion/advisor-cli/internal/catalog"
	"github.com/truevizion/advisor-cli/internal/extract"
	"github.com/truevizion/advisor-cli/internal/model"
	"github.com/truevizion/advisor-cli/internal/recommend"
	"github.com/truevizion/advisor-cli/internal/riskscore"
	"github.com/truevizion/advisor-cli/internal/store"
	"github.com/truevizion/advisor-cli/pkg/anthropic"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the planning webhook server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("catalog"); err != nil {
			return err
		}
		weights, err := scoringWeights(cmd)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		var extractor *extract.Extractor
		if cfg.Anthropic.Key != "" {
			extractor = extract.New(
				anthropic.NewClient(cfg.Anthropic.Key),
				cfg.Anthropic.Model,
				cfg.Anthropic.MaxTokens,
			)
		}

		h := newPlanHandler(catalogCache(), weights, st, extractor, cfg.Recommend.TopN)

		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/v1/catalog", h.getCatalog)
		r.Post("/v1/plans", h.createPlan)
		r.Get("/v1/plans", h.listPlans)
		r.Get("/v1/plans/{id}", h.getPlan)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve: listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().String("weights", "", "YAML scoring weights override file")
	rootCmd.AddCommand(serveCmd)
}

// planHandler carries the serve-mode dependencies.
type planHandler struct {
	recommender *recommend.Recommender
	store       store.Store
	extractor   *extract.Extractor
	catalog     *catalog.Cache
	topN        int
}

// newPlanHandler wires the serve-mode dependencies around a single catalog
// cache: the recommender ranks against the same instance the catalog endpoint
// serves, so the process loads the catalog file exactly once.
func newPlanHandler(cache *catalog.Cache, weights riskscore.Weights, st store.Store, extractor *extract.Extractor, topN int) *planHandler {
	return &planHandler{
		recommender: recommend.New(cache, weights),
		store:       st,
		extractor:   extractor,
		catalog:     cache,
		topN:        topN,
	}
}

// planRequest accepts either free text (requires the extractor) or a
// structured profile.
type planRequest struct {
	Text    string       `json:"text,omitempty"`
	Profile *profileBody `json:"profile,omitempty"`
	TopN    int          `json:"top_n,omitempty"`
	Save    bool         `json:"save,omitempty"`
}

// profileBody is the wire shape of a structured profile. It is re-validated
// through model.NewInvestorProfile before reaching the core.
type profileBody struct {
	IncomeBand           string  `json:"income_band"`
	Savings              float64 `json:"savings"`
	DebtBand             string  `json:"debt_band"`
	InvestmentBudget     float64 `json:"investment_budget"`
	InvestmentTermMonths int     `json:"investment_term_months"`
	RiskTolerance        int     `json:"risk_tolerance"`
	InvestmentPurpose    string  `json:"investment_purpose"`
}

func (h *planHandler) createPlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		profile model.InvestorProfile
		err     error
	)
	switch {
	case req.Profile != nil:
		profile, err = model.NewInvestorProfile(
			model.IncomeBand(req.Profile.IncomeBand),
			req.Profile.Savings,
			model.DebtBand(req.Profile.DebtBand),
			req.Profile.InvestmentBudget,
			req.Profile.InvestmentTermMonths,
			req.Profile.RiskTolerance,
			model.InvestmentPurpose(req.Profile.InvestmentPurpose),
		)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	case req.Text != "":
		if h.extractor == nil {
			writeError(w, http.StatusServiceUnavailable, "free-text extraction is not configured")
			return
		}
		profile, err = h.extractor.Extract(r.Context(), req.Text)
		if err != nil {
			zap.L().Error("extraction failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "profile extraction failed")
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "either text or profile is required")
		return
	}

	topN := req.TopN
	if topN <= 0 {
		topN = h.topN
	}

	result, err := h.recommender.Recommend(profile, topN)
	if err != nil {
		zap.L().Error("recommendation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "recommendation failed")
		return
	}

	plan := &store.PlanRecord{
		Profile:         profile,
		Score:           result.Score,
		RiskProfile:     result.RiskProfile,
		Recommendations: result.Recommendations,
	}
	if req.Save {
		if err := h.store.SavePlan(r.Context(), plan); err != nil {
			zap.L().Error("plan save failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "plan save failed")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":              plan.ID,
		"profile":         profile,
		"score":           result.Score,
		"breakdown":       result.Breakdown,
		"risk_profile":    result.RiskProfile,
		"recommendations": result.Recommendations,
	})
}

func (h *planHandler) getPlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	plan, err := h.store.GetPlan(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrPlanNotFound) {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}
		zap.L().Error("get plan failed", zap.String("plan_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get plan failed")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *planHandler) listPlans(w http.ResponseWriter, r *http.Request) {
	filter := store.PlanFilter{Limit: 50}
	if rp := r.URL.Query().Get("risk_profile"); rp != "" {
		filter.RiskProfile = model.RiskProfile(rp)
	}

	plans, err := h.store.ListPlans(r.Context(), filter)
	if err != nil {
		zap.L().Error("list plans failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list plans failed")
		return
	}
	if plans == nil {
		plans = []store.PlanRecord{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *planHandler) getCatalog(w http.ResponseWriter, _ *http.Request) {
	cat, err := h.catalog.Get()
	if err != nil {
		zap.L().Error("catalog load failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "catalog load failed")
		return
	}
	writeJSON(w, http.StatusOK, cat.Products())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
