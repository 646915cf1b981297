package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/genglo/coop-kiosk/internal/adapter/http/middleware"
	"github.com/genglo/coop-kiosk/internal/adapter/http/models"
	"github.com/genglo/coop-kiosk/internal/commons"
	"github.com/genglo/coop-kiosk/internal/usecase/service_interfaces"
)

type BalanceController struct {
	service service_interfaces.BalanceService
}

func NewBalanceController(service service_interfaces.BalanceService) *BalanceController {
	return &BalanceController{service: service}
}

func (c *BalanceController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/refill-balance", guard(authMiddleware, c.refill))
}

func (c *BalanceController) refill(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.RefillBalanceResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	actorID, ok := middleware.MemberID(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.RefillBalanceResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	var req models.RefillBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.RefillBalanceResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.RefillBalance(r.Context(), actorID, req)
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
