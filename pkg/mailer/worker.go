package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/fretvault/api/pkg/helpers"
	mailtpl "github.com/fretvault/api/pkg/mailer/templates"
)

// Sender delivers a rendered message. *Mailgun implements it.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Outcome tells the consumer loop what to do with a delivery.
type Outcome int

const (
	Ack Outcome = iota
	Requeue
	Drop
)

var (
	ErrBadJob          = errors.New("invalid email job")
	ErrUnknownTemplate = errors.New("unknown email template")
)

// Worker turns queued EmailJobs into sent emails.
type Worker struct {
	Sender      Sender
	Geo         mailtpl.GeoResolver // optional; fills Location and local times from IP
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

// Prepare decodes and renders a job body into the final message parts.
func (w *Worker) Prepare(ctx context.Context, body []byte) (job EmailJob, err error) {
	if err := json.Unmarshal(body, &job); err != nil {
		return job, errors.Join(ErrBadJob, err)
	}
	if err := job.normalize(); err != nil {
		return job, err
	}
	if !job.Templated() {
		return job, nil
	}
	if !mailtpl.Known(job.Template) {
		return job, ErrUnknownTemplate
	}

	data, err := mailtpl.FromMap(job.Data)
	if err != nil {
		return job, errors.Join(ErrBadJob, err)
	}
	if data.Email == "" {
		data.Email = job.To
	}
	if data.Location == "" && data.IP != "" {
		mailtpl.WithGeoFromIP(ctx, w.Geo, data.IP)(&data)
	}
	job.Subject, job.Text, job.HTML, err = mailtpl.Render(job.Template, data)
	if err != nil {
		return job, errors.Join(ErrBadJob, err)
	}
	return job, nil
}

// Handle processes one message body. Rendering problems are permanent and
// dropped; send failures are retried once via redelivery.
func (w *Worker) Handle(ctx context.Context, body []byte, redelivered bool) Outcome {
	job, err := w.Prepare(ctx, body)
	if err != nil {
		helpers.LogError(w.Logger, "email job rejected", err, logrus.Fields{"template": job.Template})
		return Drop
	}

	timeout := w.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, job.Subject, job.Text, job.HTML); err != nil {
		helpers.LogError(w.Logger, "email send failed", err, logrus.Fields{"to": job.To, "redelivered": redelivered})
		if redelivered {
			return Drop
		}
		return Requeue
	}
	helpers.LogInfo(w.Logger, "email sent", logrus.Fields{"to": job.To, "template": job.Template})
	return Ack
}

// Run consumes deliveries until the channel closes or ctx is cancelled.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-deliveries:
			if !ok {
				return
			}
			switch w.Handle(ctx, msg.Body, msg.Redelivered) {
			case Ack:
				_ = msg.Ack(false)
			case Requeue:
				_ = msg.Nack(false, true)
			default:
				_ = msg.Nack(false, false)
			}
		}
	}
}
