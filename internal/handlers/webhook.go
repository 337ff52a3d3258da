package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HCD2016-hash/shippo-missive/internal/logger"
	"github.com/HCD2016-hash/shippo-missive/internal/services"
	"github.com/HCD2016-hash/shippo-missive/internal/shippo"
)

var errNoPayload = errors.New("no payload")

type WebhookHandler struct {
	log        *logger.Logger
	reconciler services.ReconcilerService
}

func NewWebhookHandler(log *logger.Logger, reconciler services.ReconcilerService) *WebhookHandler {
	return &WebhookHandler{
		log:        log.With("handler", "WebhookHandler"),
		reconciler: reconciler,
	}
}

// Receive handles POST /webhook/shippo. Shippo redelivers on any non-2xx, so
// reconciliation failures are logged and still acknowledged with 200; only a
// missing or unparseable body gets a 400.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var env shippo.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		RespondError(c, http.StatusBadRequest, errNoPayload)
		return
	}
	if env.Event == "" && env.Data == nil {
		RespondError(c, http.StatusBadRequest, errNoPayload)
		return
	}

	h.log.Info("Received Shippo webhook", "event", env.Event)

	if err := h.dispatch(c.Request.Context(), env); err != nil {
		h.log.Error("Webhook reconciliation failed", "event", env.Event, "error", err)
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, gin.H{"received": true})
}

func (h *WebhookHandler) dispatch(ctx context.Context, env shippo.Envelope) error {
	switch env.Event {
	case shippo.EventTransactionCreated:
		var data shippo.TransactionData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return fmt.Errorf("decode transaction_created payload: %w", err)
		}
		return h.reconciler.HandleTransactionCreated(ctx, nil, data)
	case shippo.EventTransactionUpdated:
		var data shippo.TransactionData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return fmt.Errorf("decode transaction_updated payload: %w", err)
		}
		return h.reconciler.HandleTransactionUpdated(ctx, nil, data)
	case shippo.EventTrackUpdated:
		var data shippo.TrackData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return fmt.Errorf("decode track_updated payload: %w", err)
		}
		return h.reconciler.HandleTrackUpdated(ctx, nil, data)
	default:
		h.log.Info("Unhandled Shippo event", "event", env.Event)
		return nil
	}
}
