package timelinequeue

import (
	"context"
	"fmt"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/app/models"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AMQPChannel is the subset of *amqp.Channel the publisher uses.
type AMQPChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Confirm(noWait bool) error
	NotifyPublish(confirm chan amqp.Confirmation) chan amqp.Confirmation
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Service publishes timeline.built events to a durable queue with
// publisher confirms.
type Service struct {
	ch        AMQPChannel
	log       *zap.Logger
	queueName string
	confirms  chan amqp.Confirmation
	mu        sync.Mutex
}

func NewService(ch AMQPChannel, log *zap.Logger, queueName string) (*Service, error) {
	_, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	)
	if err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &Service{
		ch:        ch,
		log:       log,
		queueName: queueName,
		confirms:  ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

var _ contracts.TimelineEventPublisher = (*Service)(nil)

func (s *Service) PublishTimelineBuilt(ctx context.Context, event *models.TimelineBuiltEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("TimelineQueue.PublishTimelineBuilt called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventIDKey, event.EventID),
		zap.String(constvars.LoggingPatientIDKey, event.PatientID),
	)

	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Type:         event.EventType,
		MessageId:    event.EventID,
		Timestamp:    event.OccurredAt,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := s.ch.PublishWithContext(ctx, "", s.queueName, false, false, msg); err != nil {
		s.log.Error("TimelineQueue.PublishTimelineBuilt error publishing message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueKey, s.queueName),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQPublishMessage(err, s.queueName)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), s.queueName)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), s.queueName)
	}

	s.log.Info("TimelineQueue.PublishTimelineBuilt succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventIDKey, event.EventID),
	)
	return nil
}

// NoopPublisher drops events. It is used when timeline events are disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishTimelineBuilt(ctx context.Context, event *models.TimelineBuiltEvent) error {
	return nil
}
