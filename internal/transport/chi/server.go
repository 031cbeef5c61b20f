// Package chi exposes the query engine over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/memovox/memovox/internal/domain"
	"github.com/memovox/memovox/internal/domain/query"
	"github.com/memovox/memovox/internal/domain/result"
	"github.com/memovox/memovox/internal/logger"
	"github.com/memovox/memovox/internal/metrics"
	answeruc "github.com/memovox/memovox/internal/usecase/answer"
	countuc "github.com/memovox/memovox/internal/usecase/count"
	parseuc "github.com/memovox/memovox/internal/usecase/parse"
	retrieveuc "github.com/memovox/memovox/internal/usecase/retrieve"
)

// Server handles the query HTTP API.
type Server struct {
	parse      *parseuc.Service
	retrieve   *retrieveuc.Service
	count      *countuc.Service
	answer     *answeruc.Service
	maxResults int
	logger     *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(
	parse *parseuc.Service,
	retrieve *retrieveuc.Service,
	count *countuc.Service,
	answer *answeruc.Service,
	maxResults int,
	log *zap.Logger,
) *Server {
	return &Server{
		parse:      parse,
		retrieve:   retrieve,
		count:      count,
		answer:     answer,
		maxResults: maxResults,
		logger:     log,
	}
}

// Router assembles the chi router with the standard middleware stack.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Post("/v1/query", s.handleQuery)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

type queryRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type resultResponse struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Score    float64        `json:"score"`
}

type countResponse struct {
	Counts        map[string]int `json:"counts"`
	TotalMentions int            `json:"total_mentions"`
	MatchingDates []string       `json:"matching_dates"`
	DateRange     string         `json:"date_range"`
}

type queryResponse struct {
	Intent  string           `json:"intent"`
	Answer  string           `json:"answer"`
	Results []resultResponse `json:"results,omitempty"`
	Count   *countResponse   `json:"count,omitempty"`
}

// handleQuery parses the question, dispatches on intent, and renders an
// answer: count queries aggregate keyword occurrences, everything else
// runs hybrid retrieval.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	maxResults := req.MaxResults
	if maxResults <= 0 || maxResults > 50 {
		maxResults = s.maxResults
	}

	ctx := r.Context()
	start := time.Now()

	params := s.parse.Parse(ctx, req.Query)
	intent := string(params.Type())

	resp := queryResponse{Intent: intent}

	if params.Type() == query.TypeCount {
		res, err := s.count.Count(ctx, params)
		if err != nil {
			metrics.QueriesTotal.WithLabelValues(intent, "error").Inc()
			if errors.Is(err, domain.ErrNoKeywords) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			logger.FromContext(ctx).Error("count query failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "count query failed")
			return
		}
		resp.Answer = s.answer.FromCount(res)
		resp.Count = &countResponse{
			Counts:        res.Counts,
			TotalMentions: res.TotalMentions,
			MatchingDates: res.MatchingDates,
			DateRange:     res.DateRange,
		}
	} else {
		hits := s.retrieve.Search(ctx, params, maxResults)
		resp.Answer = s.answer.FromResults(ctx, req.Query, hits)
		resp.Results = toResultResponses(hits)
	}

	metrics.QueriesTotal.WithLabelValues(intent, "success").Inc()
	metrics.QueryDuration.WithLabelValues(intent).Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toResultResponses(hits []result.Result) []resultResponse {
	out := make([]resultResponse, 0, len(hits))
	for i := range hits {
		out = append(out, resultResponse{
			Content:  hits[i].Content(),
			Metadata: hits[i].Metadata(),
			Score:    hits[i].Score(),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a
// plain text stacktrace.
func jsonRecoverer(log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and
// propagates X-Request-ID.
func wideEventMiddleware(log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := log.With(zap.String("request_id", requestID))
			ctx := logger.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
