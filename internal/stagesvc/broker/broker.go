// Package broker connects the stage service to NATS: it consumes payment
// confirmations from paysvc and fans bracket and standings updates out to
// the socket service.
package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/granpix/granpix-services/internal/comm"
	"github.com/granpix/granpix-services/internal/stagesvc/service"
)

type Broker struct {
	nc       *nats.Conn
	services *service.Services
}

func New(nc *nats.Conn) *Broker {
	return &Broker{nc: nc}
}

// SetServices wires the use cases in after construction; the broker is the
// services' publisher, so the two reference each other.
func (b *Broker) SetServices(services *service.Services) {
	b.services = services
}

// Listen subscribes to payment confirmations. Each message settles one
// transaction; settlement is idempotent so redelivery is safe.
func (b *Broker) Listen() error {
	_, err := b.nc.Subscribe(comm.TopicPixConfirmed, func(msg *nats.Msg) {
		var evt comm.PixConfirmed
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			logrus.WithError(err).Error("bad pix confirmation payload")
			return
		}
		if err := b.services.Pix.Confirm(context.Background(), evt.ProviderID); err != nil {
			logrus.WithError(err).WithField("provider_id", evt.ProviderID).Error("pix confirmation failed")
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", comm.TopicPixConfirmed, err)
	}
	logrus.Infof("listening on %s", comm.TopicPixConfirmed)
	return nil
}

func (b *Broker) publish(topic string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).WithField("topic", topic).Error("marshal event")
		return
	}
	if err := b.nc.Publish(topic, data); err != nil {
		logrus.WithError(err).WithField("topic", topic).Error("publish event")
	}
}

func (b *Broker) PublishBracket(_ context.Context, update *comm.BracketUpdate) {
	b.publish(comm.TopicBracketUpdated, update)
}

func (b *Broker) PublishStandings(_ context.Context, update *comm.StandingsUpdate) {
	b.publish(comm.TopicStandingsUpdated, update)
}
