package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"realty/internal/adapters/observability"
	"realty/internal/domain"
)

// messageWriter is the subset of *kafka.Writer we use.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes catalog changes and contact messages to Kafka.
type Publisher struct {
	catalog      messageWriter
	contact      messageWriter
	catalogTopic string
	contactTopic string
	timeout      time.Duration
}

// NewKafka builds async writers; catalog subscribers run inside the catalog
// lock and must not wait on the broker.
func NewKafka(brokers []string, catalogTopic, contactTopic string) *Publisher {
	mk := func(topic string, async bool) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        async,
			Completion: func(msgs []kafka.Message, err error) {
				observability.ObservePublish(topic, err)
				if err != nil {
					log.Error().Err(err).Str("topic", topic).Int("messages", len(msgs)).Msg("kafka write failed")
				}
			},
		}
	}
	return newPublisher(mk(catalogTopic, true), mk(contactTopic, false), catalogTopic, contactTopic)
}

func newPublisher(catalog, contact messageWriter, catalogTopic, contactTopic string) *Publisher {
	return &Publisher{
		catalog:      catalog,
		contact:      contact,
		catalogTopic: catalogTopic,
		contactTopic: contactTopic,
		timeout:      5 * time.Second,
	}
}

// catalogEvent carries the change without the full set; consumers that need
// the set read it from the API.
type catalogEvent struct {
	Op       domain.ChangeOp  `json:"op"`
	ID       domain.ID        `json:"id"`
	Property *domain.Property `json:"property,omitempty"`
	Count    int              `json:"count"`
	At       time.Time        `json:"at"`
}

// OnCatalogChange is registered with Catalog.Subscribe.
func (p *Publisher) OnCatalogChange(ch domain.CatalogChange) {
	ev := catalogEvent{Op: ch.Op, ID: ch.ID, Count: len(ch.Properties), At: time.Now().UTC()}
	if ch.Op != domain.OpDelete {
		for i := range ch.Properties {
			if ch.Properties[i].ID == ch.ID {
				ev.Property = &ch.Properties[i]
				break
			}
		}
	}
	b, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("marshal catalog event failed")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	msg := kafka.Message{Key: []byte(ch.ID.String()), Value: b}
	if err := p.catalog.WriteMessages(ctx, msg); err != nil {
		log.Error().Err(err).Str("topic", p.catalogTopic).Msg("publish catalog event failed")
	}
}

// Send implements domain.Outbox.
func (p *Publisher) Send(ctx context.Context, m domain.ContactMessage) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.contact.WriteMessages(ctx, kafka.Message{Key: []byte(m.ID), Value: b}); err != nil {
		return fmt.Errorf("publish contact message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	err1 := p.catalog.Close()
	err2 := p.contact.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
