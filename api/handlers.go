/*
handlers.go - HTTP API handlers for the round-up investment engine

PURPOSE:
  Exposes the roundup pipeline via REST. Handles HTTP request/response,
  JSON serialization, and delegates every decision to the domain
  package.

ENDPOINTS (base /blackrock/challenge/v1):
  POST /transactions:parse      Enrich raw expenses (ceiling/remanent)
  POST /transactions:validator  Duplicate/negative screening
  POST /transactions:filter     Temporal rule classification
  POST /returns:nps             Pension-profile growth projection
  POST /returns:index           Index-profile growth projection
  GET  /performance             Process snapshot (see performance.go)
  GET  /performance/history     Request audit journal

ERROR HANDLING:
  - 400: body is not valid JSON
  - 422: body decodes but violates the contract (missing field, bad
         timestamp, malformed rule bounds, empty k set, bad wage/age)
  - 429: rate limit exceeded (middleware.go)
  - 500: anything unexpected; the recoverer keeps panics request-local

CACHING:
  The two returns endpoints are pure functions of their body, so
  identical requests within the configured TTL are answered from a
  response cache keyed by body hash.

SEE ALSO:
  - dto.go: request/response shapes and conversions
  - server.go: router setup and middleware
  - roundup: the pipeline itself
*/
package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/warp/roundup-engine/logger"
	"github.com/warp/roundup-engine/roundup"
	"github.com/warp/roundup-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Audit     *sqlite.Store
	Projector *roundup.Projector
	Timer     *RequestTimer

	// Memoized returns responses; nil when caching is disabled.
	returnsCache *cache.Cache

	log *slog.Logger
}

// NewHandler creates a handler around the audit store. A zero cacheTTL
// disables returns memoization.
func NewHandler(audit *sqlite.Store, cacheTTL time.Duration) *Handler {
	h := &Handler{
		Audit:     audit,
		Projector: &roundup.Projector{},
		Timer:     &RequestTimer{},
		log:       logger.L,
	}
	if cacheTTL > 0 {
		h.returnsCache = cache.New(cacheTTL, 2*cacheTTL)
	}
	return h
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// ParseTransactions enriches a list of raw expenses.
// POST /blackrock/challenge/v1/transactions:parse
func (h *Handler) ParseTransactions(w http.ResponseWriter, r *http.Request) {
	var rows []rawExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body: expected a list of expenses", err)
		return
	}

	expenses := make([]roundup.RawExpense, 0, len(rows))
	for i, row := range rows {
		expense, err := parseRawExpense(i, row)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error(), nil)
			return
		}
		expenses = append(expenses, expense)
	}

	result := roundup.Enrich(expenses)
	writeJSON(w, http.StatusOK, parseResponse{
		Transactions:  toTransactionDTOs(result.Transactions),
		TotalExpense:  round2(result.TotalExpense),
		TotalCeiling:  round2(result.TotalCeiling),
		TotalRemanent: round2(result.TotalRemanent),
	})
}

// ValidateTransactions screens pre-enriched transactions.
// POST /blackrock/challenge/v1/transactions:validator
func (h *Handler) ValidateTransactions(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing JSON body", err)
		return
	}

	if req.Wage == nil {
		writeError(w, http.StatusUnprocessableEntity, "Missing required field: 'wage'", nil)
		return
	}
	if *req.Wage <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "'wage' must be a positive number", nil)
		return
	}
	if req.Transactions == nil {
		writeError(w, http.StatusUnprocessableEntity, "'transactions' must be a list", nil)
		return
	}

	txns := make([]roundup.Transaction, 0, len(req.Transactions))
	for i, row := range req.Transactions {
		txn, err := parseEnrichedRow(i, row)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error(), nil)
			return
		}
		txns = append(txns, txn)
	}

	result := roundup.Validate(decimal.NewFromFloat(*req.Wage), txns)
	writeJSON(w, http.StatusOK, validateResponse{
		Valid:   toTransactionDTOs(result.Valid),
		Invalid: toInvalidDTOs(result.Invalid),
	})
}

// FilterTransactions classifies bare {date, amount} rows against the
// temporal rule sets.
// POST /blackrock/challenge/v1/transactions:filter
func (h *Handler) FilterTransactions(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing JSON body", err)
		return
	}

	rules, err := parseRuleSet(req.Q, req.P, req.K)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}
	if len(rules.Windows) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "At least one k range is required", nil)
		return
	}
	if req.Transactions == nil {
		writeError(w, http.StatusUnprocessableEntity, "'transactions' must be a list", nil)
		return
	}

	expenses := make([]roundup.RawExpense, 0, len(req.Transactions))
	for i, row := range req.Transactions {
		expense, err := parseDatedExpense(i, row)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error(), nil)
			return
		}
		expenses = append(expenses, expense)
	}

	// Wage is optional on this endpoint; the validator accepts it for
	// contract compatibility but it changes nothing.
	wage := decimal.Zero
	if req.Wage != nil {
		wage = decimal.NewFromFloat(*req.Wage)
	}

	result, err := roundup.Filter(wage, expenses, rules)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, filterResponse{
		Valid:   toFilteredDTOs(result.Valid),
		Invalid: toInvalidDTOs(result.Invalid),
	})
}

// =============================================================================
// RETURNS HANDLERS
// =============================================================================

// ReturnsNPS projects returns under the pension profile (7.11% p.a.,
// tax benefit included).
// POST /blackrock/challenge/v1/returns:nps
func (h *Handler) ReturnsNPS(w http.ResponseWriter, r *http.Request) {
	h.handleReturns(w, r, roundup.ProfilePension)
}

// ReturnsIndex projects returns under the index-fund profile (14.49%
// p.a., no tax benefit).
// POST /blackrock/challenge/v1/returns:index
func (h *Handler) ReturnsIndex(w http.ResponseWriter, r *http.Request) {
	h.handleReturns(w, r, roundup.ProfileIndex)
}

func (h *Handler) handleReturns(w http.ResponseWriter, r *http.Request, profile roundup.Profile) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	cacheKey := returnsCacheKey(profile, body)
	if h.returnsCache != nil {
		if cached, found := h.returnsCache.Get(cacheKey); found {
			h.log.Debug("Returns cache hit", "profile", string(profile))
			writeRawJSON(w, http.StatusOK, cached.([]byte))
			return
		}
	}

	var req returnsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing JSON body", err)
		return
	}

	input, errMsg := h.buildProjectionInput(req, profile)
	if errMsg != "" {
		writeError(w, http.StatusUnprocessableEntity, errMsg, nil)
		return
	}

	result, err := h.Projector.Project(input)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	resp := toReturnsResponse(result)
	payload, err := json.Marshal(resp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to serialize response", err)
		return
	}
	if h.returnsCache != nil {
		h.returnsCache.SetDefault(cacheKey, payload)
	}
	writeRawJSON(w, http.StatusOK, payload)
}

// buildProjectionInput validates the common returns fields. It returns
// an empty message on success.
func (h *Handler) buildProjectionInput(req returnsRequest, profile roundup.Profile) (roundup.ProjectionInput, string) {
	var input roundup.ProjectionInput

	if req.Age == nil {
		return input, "Missing required field: 'age'"
	}
	if req.Wage == nil {
		return input, "Missing required field: 'wage'"
	}
	if *req.Wage <= 0 {
		return input, "'wage' must be a positive number"
	}
	if req.Inflation == nil {
		return input, "Missing required field: 'inflation'"
	}
	if req.Transactions == nil {
		return input, "'transactions' must be a list"
	}

	rules, err := parseRuleSet(req.Q, req.P, req.K)
	if err != nil {
		return input, err.Error()
	}
	if len(rules.Windows) == 0 {
		return input, "At least one k range is required"
	}

	expenses := make([]roundup.RawExpense, 0, len(req.Transactions))
	for i, row := range req.Transactions {
		expense, err := parseDatedExpense(i, row)
		if err != nil {
			return input, err.Error()
		}
		expenses = append(expenses, expense)
	}

	return roundup.ProjectionInput{
		Profile:   profile,
		Age:       *req.Age,
		Wage:      decimal.NewFromFloat(*req.Wage),
		Inflation: decimal.NewFromFloat(*req.Inflation),
		Rules:     rules,
		Expenses:  expenses,
	}, ""
}

func returnsCacheKey(profile roundup.Profile, body []byte) string {
	sum := sha256.Sum256(body)
	return string(profile) + ":" + hex.EncodeToString(sum[:])
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// writeDomainError maps pipeline errors to status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	if roundup.IsClientError(err) {
		writeError(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}
	h.log.Error("Pipeline failure", "error", err)
	writeError(w, http.StatusInternalServerError, "Calculation error", err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeRawJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
