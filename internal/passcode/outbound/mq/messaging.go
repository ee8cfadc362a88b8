package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/passbite/internal/passcode/usecase"
	"github.com/shandysiswandi/passbite/internal/pkg/instrument"
	"github.com/shandysiswandi/passbite/internal/pkg/messaging"
	"github.com/shandysiswandi/passbite/internal/pkg/uid"
	"github.com/shandysiswandi/passbite/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	uid    uid.NumberID
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, uid uid.NumberID, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, uid: uid, ins: ins}
}

func (m *Messaging) PublishPasscodeIssued(ctx context.Context, msg usecase.PasscodeIssuedEvent) error {
	ctx, span := m.ins.Tracer("passcode.outbound.mq").Start(ctx, "PublishPasscodeIssued")
	defer span.End()

	body, err := json.Marshal(event.PasscodeIssuedMessage{
		EventID:     m.uid.Generate(),
		PasscodeID:  msg.PasscodeID,
		PhoneNumber: msg.PhoneNumber,
		CreateTime:  msg.CreateTime,
		ExpireTime:  msg.ExpireTime,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.PasscodeIssuedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishPasscodeVerified(ctx context.Context, msg usecase.PasscodeVerifiedEvent) error {
	ctx, span := m.ins.Tracer("passcode.outbound.mq").Start(ctx, "PublishPasscodeVerified")
	defer span.End()

	body, err := json.Marshal(event.PasscodeVerifiedMessage{
		EventID:      m.uid.Generate(),
		PasscodeID:   msg.PasscodeID,
		VerifiedTime: msg.VerifiedTime,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.PasscodeVerifiedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
