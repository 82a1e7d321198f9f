package notify

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
)

// ContactNotifier tells the practice about new contact requests. It
// satisfies services.Notifier.
type ContactNotifier struct {
	Sender Sender
	To     []string
	// Location formats the received date. Defaults to UTC.
	Location *time.Location
}

// NotifyContactRequest emails the team about r. Replies go to the visitor.
func (n *ContactNotifier) NotifyContactRequest(ctx context.Context, r *domain.ContactRequest) error {
	ctx, span := otel.Tracer("notify").Start(ctx, "NotifyContactRequest",
		trace.WithAttributes(attribute.String("request.id", r.ID), attribute.Int("recipients", len(n.To))))
	defer span.End()

	body, err := RenderContactRequest(r, n.Location)
	if err != nil {
		span.RecordError(err)
		return err
	}
	err = n.Sender.Send(ctx, Email{
		To:      n.To,
		Subject: SubjectLine(r),
		HTML:    body,
		ReplyTo: r.Email,
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}
