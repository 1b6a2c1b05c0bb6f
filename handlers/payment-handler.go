package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Muhammad-Huzaifa24/backend-PMS/logging"
	"github.com/Muhammad-Huzaifa24/backend-PMS/services"
	"github.com/Muhammad-Huzaifa24/backend-PMS/utils"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.BadRequestResponse(w, "invalid request body")
		return
	}

	clientSecret, err := h.payments.CreateIntent(r.Context(), body.Amount, body.Currency)
	if err != nil {
		logging.Logger.Errorf("Failed to create payment intent: %v", err)
		utils.ErrorResponse(w, err)
		return
	}

	utils.SuccessResponse(w, "Success", map[string]string{"clientSecret": clientSecret})
}
