// Package sharedutils holds the message plumbing shared by every module:
// payload (un)marshalling, correlation ID propagation, and outgoing message
// construction for watermill handlers.
package sharedutils

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

type correlationIDKey struct{}

// CorrelationIDFromContext returns the correlation ID stored in ctx, or ""
// when the flow was not started by a message.
func CorrelationIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return v
	}
	return ""
}

// ContextWithCorrelationID stores the message's correlation ID in ctx so the
// service layer can log it without seeing the message.
func ContextWithCorrelationID(ctx context.Context, msg *message.Message) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, middleware.MessageCorrelationID(msg))
}

// Helpers is the message toolkit injected into handlers and routers.
type Helpers interface {
	UnmarshalPayload(msg *message.Message, out any) error
	CreateResultMessage(src *message.Message, payload any, topic string) (*message.Message, error)
}

type helpers struct{}

// NewHelpers returns the default JSON-based Helpers implementation.
func NewHelpers() Helpers { return helpers{} }

func (helpers) UnmarshalPayload(msg *message.Message, out any) error {
	if err := json.Unmarshal(msg.Payload, out); err != nil {
		return fmt.Errorf("unmarshal payload for message %s: %w", msg.UUID, err)
	}
	return nil
}

// CreateResultMessage builds an outgoing message carrying payload, inheriting
// the source message's correlation ID and tagging the destination topic in
// metadata so the router can resolve it.
func (helpers) CreateResultMessage(src *message.Message, payload any, topic string) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload for topic %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("topic", topic)
	if src != nil {
		middleware.SetCorrelationID(middleware.MessageCorrelationID(src), msg)
	}
	return msg, nil
}

// NewEventMessage builds a fresh message (no source message to inherit from),
// used by publishers that originate a flow, e.g. the sweep scheduler.
func NewEventMessage(payload any, topic string) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload for topic %s: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("topic", topic)
	middleware.SetCorrelationID(watermill.NewUUID(), msg)
	return msg, nil
}
