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

type RefundController struct {
	service service_interfaces.RefundService
}

func NewRefundController(service service_interfaces.RefundService) *RefundController {
	return &RefundController{service: service}
}

func (c *RefundController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/process-refund", guard(authMiddleware, c.processRefund))
}

func (c *RefundController) processRefund(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.RefundReceipt]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	actorID, ok := middleware.MemberID(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.RefundReceipt]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	var req models.ProcessRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.RefundReceipt]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Refund(r.Context(), actorID, req)
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
