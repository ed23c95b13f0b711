package services

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/notificationservice/backend/internal/models"
	"go.uber.org/zap"
	mail "gopkg.in/mail.v2"
)

// MailSender dials the SMTP server and sends messages
type MailSender interface {
	DialAndSend(m ...*mail.Message) error
}

// EmailNotifier sends email messages over SMTP. Delivery failures are
// retried indefinitely with exponential backoff; only context
// cancellation stops the attempts.
type EmailNotifier struct {
	sender MailSender
	// maxExponentialRetries caps the backoff exponent, not the retry count
	maxExponentialRetries int
	logger                *zap.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(sender MailSender, maxExponentialRetries int, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		sender:                sender,
		maxExponentialRetries: maxExponentialRetries,
		logger:                logger,
		sleep:                 sleepContext,
	}
}

// SendEmail delivers the message, retrying until it succeeds or the context is canceled
func (n *EmailNotifier) SendEmail(ctx context.Context, message *models.EmailMessage) error {
	if message == nil {
		return &ValidationError{Message: "email message is required"}
	}

	m := mail.NewMessage()
	m.SetAddressHeader("From", message.From.Address, message.From.DisplayName)
	m.SetHeader("To", message.To...)
	if len(message.Cc) > 0 {
		m.SetHeader("Cc", message.Cc...)
	}
	m.SetHeader("Subject", message.Subject)
	m.SetBody("text/html", message.Body)

	n.logger.Info("sending email", zap.String("subject", message.Subject))

	for attempt := 1; ; attempt++ {
		err := n.sender.DialAndSend(m)
		if err == nil {
			return nil
		}

		if attempt < n.maxExponentialRetries {
			n.logger.Warn("failed to send email, retrying",
				zap.Error(err),
				zap.Int("retry", attempt),
			)
		} else {
			n.logger.Error("failed to send email, retrying",
				zap.Error(err),
				zap.Int("retry", attempt),
			)
		}

		if err := n.sleep(ctx, n.backoffDelay(attempt)); err != nil {
			return err
		}
	}
}

// backoffDelay doubles per attempt up to 2^maxExponentialRetries seconds,
// plus up to 100ms of jitter
func (n *EmailNotifier) backoffDelay(attempt int) time.Duration {
	exponent := min(attempt, n.maxExponentialRetries)
	wait := time.Duration(math.Pow(2, float64(exponent))) * time.Second
	return wait + time.Duration(rand.IntN(100))*time.Millisecond
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
