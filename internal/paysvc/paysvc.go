// Package paysvc bridges the payment provider and the stage engine. It
// accepts provider webhooks and runs a reconciliation poller; both paths
// end in a pix.confirmed event on NATS, which stagesvc settles.
package paysvc

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/granpix/granpix-services/internal/comm"
	"github.com/granpix/granpix-services/internal/pix"
	"github.com/granpix/granpix-services/internal/stagesvc/store"
)

type Service struct {
	nc       *nats.Conn
	pool     *pgxpool.Pool
	provider pix.Provider
}

func New(nc *nats.Conn, pool *pgxpool.Pool, provider pix.Provider) *Service {
	return &Service{nc: nc, pool: pool, provider: provider}
}

// webhookPayload is what the provider posts on payment events.
type webhookPayload struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// WebhookHandler receives provider callbacks. Anything that is not an
// approval is acknowledged and dropped; the poller catches stragglers.
func (s *Service) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if payload.ID == "" {
		http.Error(w, "missing charge id", http.StatusBadRequest)
		return
	}
	log.WithFields(log.Fields{
		"provider_id": payload.ID,
		"status":      payload.Status,
	}).Info("pix webhook received")

	if payload.Status == pix.ChargeApproved {
		s.publishConfirmed(payload.ID)
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Service) publishConfirmed(providerID string) {
	evt := comm.PixConfirmed{
		ProviderID: providerID,
		Status:     pix.ChargeApproved,
		ReceivedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(evt)
	if err != nil {
		log.WithError(err).Error("marshal pix confirmation")
		return
	}
	if err := s.nc.Publish(comm.TopicPixConfirmed, data); err != nil {
		log.WithError(err).WithField("provider_id", providerID).Error("publish pix confirmation")
	}
}

// RunPoller reconciles pending transactions against the provider until ctx
// is cancelled. Webhooks can be lost; the poller is the safety net.
func (s *Service) RunPoller(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	pending, err := store.NewPixStore(s.pool).ListPending(ctx, 50)
	if err != nil {
		log.WithError(err).Error("list pending pix transactions")
		return
	}
	for _, tx := range pending {
		status, err := s.provider.ChargeStatus(ctx, tx.ProviderID.String)
		if err != nil {
			log.WithError(err).WithField("provider_id", tx.ProviderID.String).Warn("charge status check failed")
			continue
		}
		if status == pix.ChargeApproved {
			s.publishConfirmed(tx.ProviderID.String)
		}
	}
}
