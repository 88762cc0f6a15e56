package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dimitzel3/fuel-log/internal/fuel"
	"github.com/dimitzel3/fuel-log/internal/models"
	paho "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Ingester subscribes to refuel events published by fuel-pump terminals and
// runs them through the same normalize/validate/insert path as the form.
// Invalid payloads are logged and dropped; the terminal gets no feedback
// channel, so there is nothing to surface.
type Ingester struct {
	store  fuel.Gateway
	rules  fuel.Rules
	topic  string
	client paho.Client
}

// NewIngester creates an ingester for the given broker and topic.
func NewIngester(broker, clientID, topic string, store fuel.Gateway, rules fuel.Rules) *Ingester {
	i := &Ingester{store: store, rules: rules, topic: topic}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)
	opts.OnConnect = func(c paho.Client) {
		if token := c.Subscribe(topic, 1, i.handleMessage); token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).WithField("topic", topic).Error("Failed to subscribe")
			return
		}
		log.WithField("topic", topic).Info("Subscribed to refuel events")
	}

	i.client = paho.NewClient(opts)
	return i
}

// Start connects to the broker; the subscription is (re)established on each
// connect.
func (i *Ingester) Start() error {
	if token := i.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return nil
}

// Stop disconnects from the broker.
func (i *Ingester) Stop() {
	i.client.Disconnect(250)
}

func (i *Ingester) handleMessage(_ paho.Client, msg paho.Message) {
	i.Ingest(context.Background(), msg.Payload())
}

// Ingest processes one raw event payload.
func (i *Ingester) Ingest(ctx context.Context, payload []byte) {
	var in models.RefuelInput
	if err := json.Unmarshal(payload, &in); err != nil {
		log.WithError(err).Warn("Dropping malformed refuel event")
		return
	}

	violations, err := fuel.Create(ctx, i.store, i.rules, in, time.Now())
	if err != nil {
		log.WithError(err).WithField("vehicle", in.Vehicle).Error("Failed to store refuel event")
		return
	}
	if len(violations) > 0 {
		log.WithFields(log.Fields{
			"vehicle":    in.Vehicle,
			"violations": violations,
		}).Warn("Dropping invalid refuel event")
		return
	}

	log.WithField("vehicle", in.Vehicle).Info("Refuel event ingested")
}
