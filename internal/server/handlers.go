package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"CryptoAdvisor/internal/model"
	"CryptoAdvisor/internal/narrative"
	"CryptoAdvisor/internal/portfolio"
	"CryptoAdvisor/internal/strategy"
)

const (
	defaultStrategy = "wealth-building"
	maxBodyBytes    = 1 << 20
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListStrategies(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"strategies": s.engine.Catalog().List()})
}

func (s *Server) handleGetStrategy(w http.ResponseWriter, r *http.Request) {
	p, err := s.engine.Catalog().Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

type marketsResponse struct {
	Source    string        `json:"source"`
	FetchedAt time.Time     `json:"fetched_at"`
	Assets    []model.Asset `json:"assets"`
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	batch := s.markets.Collect(r.Context())
	s.writeJSON(w, http.StatusOK, marketsResponse{
		Source:    batch.Source,
		FetchedAt: batch.FetchedAt,
		Assets:    strategy.Indicators(batch.Snapshots),
	})
}

type recommendationsResponse struct {
	Strategy        strategy.Profile       `json:"strategy"`
	Source          string                 `json:"source"`
	FetchedAt       time.Time              `json:"fetched_at"`
	Recommendations []model.Recommendation `json:"recommendations"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("strategy")
	if id == "" {
		id = defaultStrategy
	}
	p, err := s.engine.Catalog().Get(id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	batch := s.markets.Collect(r.Context())
	s.writeJSON(w, http.StatusOK, recommendationsResponse{
		Strategy:        p,
		Source:          batch.Source,
		FetchedAt:       batch.FetchedAt,
		Recommendations: s.rank(batch.Snapshots, p),
	})
}

type analyzeRequest struct {
	Strategy  string                 `json:"strategy"`
	Snapshots []model.MarketSnapshot `json:"snapshots"`
	narrative.InvestorProfile
}

type analyzeResponse struct {
	Success         bool                    `json:"success"`
	Strategy        string                  `json:"strategy"`
	Source          string                  `json:"source"`
	Recommendations []model.Recommendation  `json:"recommendations"`
	Analysis        string                  `json:"analysis"`
	Insight         narrative.Insight       `json:"insight"`
	Plans           []narrative.TradingPlan `json:"plans"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Strategy == "" {
		req.Strategy = defaultStrategy
	}
	p, err := s.engine.Catalog().Get(req.Strategy)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	source := model.SourceRequest
	snaps := req.Snapshots
	if len(snaps) == 0 {
		batch := s.markets.Collect(r.Context())
		source, snaps = batch.Source, batch.Snapshots
	}

	recs := s.rank(snaps, p)
	assets := strategy.Indicators(snaps)
	nreq := narrative.Request{
		Strategy:        p,
		Assets:          assets,
		Recommendations: recs,
		Investor:        req.InvestorProfile,
	}
	text, err := s.narrator.Generate(r.Context(), nreq)
	if err != nil {
		s.log.Warn().Err(err).Msg("narrative unavailable, using market insight")
		text, _ = narrative.RuleGenerator{}.Generate(r.Context(), nreq)
	}

	plans := make([]narrative.TradingPlan, 0, len(recs))
	for _, rec := range recs {
		plans = append(plans, narrative.BuildPlan(rec, p, req.RiskTolerance))
	}

	s.writeJSON(w, http.StatusOK, analyzeResponse{
		Success:         true,
		Strategy:        p.ID,
		Source:          source,
		Recommendations: recs,
		Analysis:        text,
		Insight:         narrative.Analyze(assets, p),
		Plans:           plans,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := q.Get("strategy")
	if id != "" {
		p, err := s.engine.Catalog().Get(id)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		id = p.ID
	}
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	runs, err := s.recorder.ListRuns(r.Context(), id, limit)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) rank(snaps []model.MarketSnapshot, p strategy.Profile) []model.Recommendation {
	start := time.Now()
	recs := strategy.RankProfile(snaps, p)
	s.metrics.ObserveRank(p.ID, len(recs), time.Since(start))
	return recs
}

func (s *Server) handleListPortfolios(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user_id")
	if user == "" {
		user = s.demoUser
	}
	list, err := s.portfolios.ListPortfolios(r.Context(), user)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"portfolios": list})
}

func (s *Server) handleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var p portfolio.Portfolio
	if err := decodeBody(w, r, &p); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if p.UserID == "" {
		p.UserID = s.demoUser
	}
	created, err := s.portfolios.CreatePortfolio(r.Context(), p)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

type investmentsResponse struct {
	Portfolio portfolio.Portfolio  `json:"portfolio"`
	Positions []portfolio.Position `json:"positions"`
	Metrics   portfolio.Metrics    `json:"metrics"`
	Source    string               `json:"source"`
}

func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.portfolios.GetPortfolio(r.Context(), id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	invs, err := s.portfolios.ListInvestments(r.Context(), id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	batch := s.markets.Collect(r.Context())
	invs = portfolio.Reprice(invs, batch.Snapshots)
	s.writeJSON(w, http.StatusOK, investmentsResponse{
		Portfolio: p,
		Positions: portfolio.Positions(invs),
		Metrics:   portfolio.ComputeMetrics(invs),
		Source:    batch.Source,
	})
}

func (s *Server) handleAddInvestment(w http.ResponseWriter, r *http.Request) {
	var inv portfolio.Investment
	if err := decodeBody(w, r, &inv); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	inv.PortfolioID = chi.URLParam(r, "id")
	created, err := s.portfolios.AddInvestment(r.Context(), inv)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, portfolio.NewPosition(created))
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	if err := s.portfolios.DeleteInvestment(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Helper methods

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{"success": false, "error": message})
}

// writeErr maps domain errors to status codes.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, strategy.ErrUnknownStrategy), errors.Is(err, portfolio.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, portfolio.ErrInvalidInvestment), errors.Is(err, portfolio.ErrInvalidPortfolio):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
