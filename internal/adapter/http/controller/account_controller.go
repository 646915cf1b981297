package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/genglo/coop-kiosk/internal/adapter/http/middleware"
	"github.com/genglo/coop-kiosk/internal/adapter/http/models"
	"github.com/genglo/coop-kiosk/internal/commons"
	"github.com/genglo/coop-kiosk/internal/usecase/service_interfaces"
)

type AccountController struct {
	service service_interfaces.BalanceService
}

func NewAccountController(service service_interfaces.BalanceService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/account", guard(authMiddleware, c.account))
	mux.Handle("/account/summary", guard(authMiddleware, c.summary))
	mux.Handle("/balance-transactions", guard(authMiddleware, c.transactions))
}

func (c *AccountController) account(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.MemberView]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	memberID, ok := middleware.MemberID(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.MemberView]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	response, err := c.service.Account(r.Context(), memberID)
	if err != nil {
		logError(r, err, nil)
		status := errorStatus(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) summary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.AccountSummaryResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	memberID, ok := middleware.MemberID(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.AccountSummaryResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	// Defaults to the current month; year and month query params override.
	now := time.Now()
	year := now.Year()
	month := now.Month()
	if v := r.URL.Query().Get("year"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			year = parsed
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 1 && parsed <= 12 {
			month = time.Month(parsed)
		}
	}

	response, err := c.service.AccountSummary(r.Context(), memberID, year, month)
	if err != nil {
		logError(r, err, nil)
		status := errorStatus(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) transactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.LedgerHistoryResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	memberID, ok := middleware.MemberID(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.LedgerHistoryResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	response, err := c.service.LedgerHistory(r.Context(), memberID, page, limit)
	if err != nil {
		logError(r, err, nil)
		status := errorStatus(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

// guard wraps a handler with the session middleware when one is configured.
func guard(authMiddleware func(http.Handler) http.Handler, handler http.HandlerFunc) http.Handler {
	if authMiddleware == nil {
		return handler
	}
	return authMiddleware(handler)
}
