package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	// queueDepth bounds the messages waiting on the broker. A slow or
	// unreachable broker sheds messages instead of stalling sampling.
	queueDepth = 64

	connectTimeout    = 5 * time.Second
	disconnectQuiesce = 250 // milliseconds, paho's unit
)

// envelope is one queued publish.
type envelope struct {
	topic   string
	qos     byte
	payload []byte
}

// MQTTSink publishes each record as JSON on
// steepwatch/<session>/telemetry and alert events on
// steepwatch/<session>/alerts. All broker I/O happens on the sink's
// pump goroutine; Emit and PublishAlert only enqueue and never wait
// on the broker.
type MQTTSink struct {
	client  mqtt.Client
	session string
	log     *slog.Logger
	queue   chan envelope
	done    chan struct{}
}

// NewMQTTSink connects to the broker and starts the publish pump.
func NewMQTTSink(broker, session string, log *slog.Logger) (*MQTTSink, error) {
	if log == nil {
		log = slog.Default()
	}
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("steepwatch-" + session).
		SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(opts)
	if tok := client.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, tok.Error())
	}

	s := &MQTTSink{
		client:  client,
		session: session,
		log:     log,
		queue:   make(chan envelope, queueDepth),
		done:    make(chan struct{}),
	}
	go s.pump()
	return s, nil
}

// Emit queues r for publishing; a full queue drops the record.
func (s *MQTTSink) Emit(r Record) {
	payload, err := json.Marshal(r)
	if err != nil {
		s.log.Error("marshal telemetry record", "error", err)
		return
	}
	s.enqueue(envelope{topic: s.topic("telemetry"), payload: payload})
}

// PublishAlert queues an alert event at QoS 1 so a reminder is not
// lost to a flaky link. It is wired as the scheduler's alert callback
// and returns without waiting on the broker.
func (s *MQTTSink) PublishAlert() {
	payload, err := json.Marshal(AlertEvent{Session: s.session, FiredAt: time.Now().UTC()})
	if err != nil {
		s.log.Error("marshal alert event", "error", err)
		return
	}
	s.enqueue(envelope{topic: s.topic("alerts"), qos: 1, payload: payload})
}

func (s *MQTTSink) enqueue(e envelope) {
	select {
	case s.queue <- e:
	default:
		s.log.Warn("publish queue full, dropping message", "topic", e.topic)
	}
}

func (s *MQTTSink) pump() {
	defer close(s.done)
	for e := range s.queue {
		tok := s.client.Publish(e.topic, e.qos, false, e.payload)
		tok.Wait()
		if tok.Error() != nil {
			s.log.Error("publish failed", "topic", e.topic, "error", tok.Error())
		}
	}
}

// Close drains the queue and disconnects from the broker.
func (s *MQTTSink) Close() {
	close(s.queue)
	<-s.done
	s.client.Disconnect(disconnectQuiesce)
}

func (s *MQTTSink) topic(kind string) string {
	return fmt.Sprintf("steepwatch/%s/%s", s.session, kind)
}
