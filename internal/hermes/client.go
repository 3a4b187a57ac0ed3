package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Client publishes ranking events and listens for dataset changes.
type Client interface {
	Publish(subject string, data interface{}) error
	Subscribe(subject string, handler func(subject string, data []byte)) error
	Close()
}

// Identified events carry a stable id used for JetStream de-duplication, so a
// retried publish of the same run is stored once.
type Identified interface {
	MessageID() string
}

// Options configure the connection and the event stream.
type Options struct {
	URL          string
	Name         string
	StreamMaxAge time.Duration
}

type NATSClient struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	subs   []*nats.Subscription
	logger *slog.Logger
}

// NewNATSClient connects to NATS and makes sure the event stream exists. A
// stream failure is logged, not returned; plain publishing still works.
func NewNATSClient(ctx context.Context, opts Options, logger *slog.Logger) (*NATSClient, error) {
	name := opts.Name
	if name == "" {
		name = "locus"
	}
	nc, err := nats.Connect(opts.URL,
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("hermes disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("hermes reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	c := &NATSClient{conn: nc, js: js, logger: logger}
	if _, err := c.js.CreateOrUpdateStream(ctx, streamConfig(opts)); err != nil {
		logger.Warn("failed to ensure stream", "stream", StreamName, "error", err)
	}
	return c, nil
}

// streamConfig keeps every ranking and dataset event for the configured
// retention, de-duplicating republished runs within DuplicateWindow.
func streamConfig(opts Options) jetstream.StreamConfig {
	maxAge := opts.StreamMaxAge
	if maxAge <= 0 {
		maxAge = DefaultStreamMaxAge
	}
	return jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   StreamSubjects(),
		MaxAge:     maxAge,
		Storage:    jetstream.FileStorage,
		Discard:    jetstream.DiscardOld,
		Duplicates: DuplicateWindow,
	}
}

// newMessage encodes an event as JSON and, for identified events, sets the
// JetStream message id header.
func newMessage(subject string, data interface{}) (*nats.Msg, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", subject, err)
	}
	msg := nats.NewMsg(subject)
	msg.Data = payload
	msg.Header.Set("Content-Type", "application/json")
	if ev, ok := data.(Identified); ok {
		msg.Header.Set(nats.MsgIdHdr, ev.MessageID())
	}
	return msg, nil
}

func (c *NATSClient) Publish(subject string, data interface{}) error {
	msg, err := newMessage(subject, data)
	if err != nil {
		return err
	}
	return c.conn.PublishMsg(msg)
}

func (c *NATSClient) Subscribe(subject string, handler func(string, []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return err
	}
	c.subs = append(c.subs, sub)
	return nil
}

func (c *NATSClient) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	if err := c.conn.FlushTimeout(2 * time.Second); err != nil {
		c.logger.Warn("hermes flush on close failed", "error", err)
	}
	c.conn.Close()
}
