// Package daemon runs the background workers of the backend. The event
// ingester turns gateway MQTT messages into activity logs and faults through
// the same service calls the HTTP API uses.
package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/embedded-iot/unified-be/internal/constants"
	"github.com/embedded-iot/unified-be/internal/metrics"
	"github.com/embedded-iot/unified-be/internal/models"
	"github.com/embedded-iot/unified-be/internal/services"
	"github.com/embedded-iot/unified-be/internal/utils"
)

const (
	activityLogsTopic = "activityLogs"
	faultsTopic       = "faults"
)

// Ingest outcomes, used as the result metric label.
const (
	resultOK       = "ok"
	resultInvalid  = "invalid"
	resultRejected = "rejected"
	resultFailed   = "error"
)

var ErrUnknownTopic = errors.New("ingest: unknown topic")

type ActivityLogCreator interface {
	Create(ctx context.Context, in services.CreateActivityLogInput) (*models.ActivityLog, error)
}

type FaultCreator interface {
	Create(ctx context.Context, in services.CreateFaultInput) (*models.Fault, error)
}

type EventIngester struct {
	ActivityLogs ActivityLogCreator
	Faults       FaultCreator
	TopicPrefix  string
	QoS          byte
	Timeout      time.Duration
}

func (e *EventIngester) topic(name string) string {
	if e.TopicPrefix == "" {
		return name
	}
	return e.TopicPrefix + "/" + name
}

// Topics lists the subscriptions with their QoS, ready for SubscribeMultiple.
func (e *EventIngester) Topics() map[string]byte {
	return map[string]byte{
		e.topic(activityLogsTopic): e.QoS,
		e.topic(faultsTopic):       e.QoS,
	}
}

// Subscribe is meant to be passed as the ConnectMQTT onConnect callback.
func (e *EventIngester) Subscribe(client pahomqtt.Client) {
	token := client.SubscribeMultiple(e.Topics(), e.onMessage)
	if !token.WaitTimeout(subscribeTimeout) {
		utils.GetLogger().Error("mqtt subscribe timed out")
		return
	}
	if err := token.Error(); err != nil {
		utils.GetLogger().Error("mqtt subscribe failed", zap.Error(err))
		return
	}
	utils.GetLogger().Info("ingesting gateway events", zap.Any("topics", e.Topics()))
}

// onMessage runs on paho's goroutines. Failures are logged and the message dropped.
func (e *EventIngester) onMessage(_ pahomqtt.Client, msg pahomqtt.Message) {
	l := utils.GetLogger().With(zap.String("topic", msg.Topic()), zap.Uint16("message_id", msg.MessageID()))
	defer func() {
		if r := recover(); r != nil {
			l.Error("ingest handler panic", zap.Any("panic", r))
		}
	}()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultStoreTimeout
	}
	ctx, cancel := context.WithTimeout(utils.WithLogger(context.Background(), l), timeout)
	defer cancel()

	if err := e.HandleMessage(ctx, msg.Topic(), msg.Payload()); err != nil {
		l.Warn("gateway event dropped", zap.Error(err))
	}
}

// HandleMessage decodes payload as the POST body of the topic's resource and creates the record.
func (e *EventIngester) HandleMessage(ctx context.Context, topic string, payload []byte) error {
	var (
		kind string
		err  error
	)
	switch topic {
	case e.topic(activityLogsTopic):
		kind = activityLogsTopic
		var in services.CreateActivityLogInput
		if err = decodePayload(payload, &in); err == nil {
			_, err = e.ActivityLogs.Create(ctx, in)
		}
	case e.topic(faultsTopic):
		kind = faultsTopic
		var in services.CreateFaultInput
		if err = decodePayload(payload, &in); err == nil {
			_, err = e.Faults.Create(ctx, in)
		}
	default:
		metrics.IngestMessages.WithLabelValues("unknown", resultInvalid).Inc()
		return fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}

	metrics.IngestMessages.WithLabelValues(kind, outcome(err)).Inc()
	return err
}

type invalidPayloadError struct{ err error }

func (e invalidPayloadError) Error() string { return "invalid payload: " + e.err.Error() }

func (e invalidPayloadError) Unwrap() error { return e.err }

func decodePayload(payload []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return invalidPayloadError{err: err}
	}
	return nil
}

func outcome(err error) string {
	var invalid invalidPayloadError
	var svcErr *services.Error
	switch {
	case err == nil:
		return resultOK
	case errors.As(err, &invalid):
		return resultInvalid
	case errors.As(err, &svcErr):
		return resultRejected
	default:
		return resultFailed
	}
}
