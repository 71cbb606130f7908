package service

import (
	"context"
	"log/slog"

	"github.com/dangerclosesec/greenhug/internal/email"
	"github.com/dangerclosesec/greenhug/internal/email/mailer"
	"github.com/dangerclosesec/greenhug/internal/impact"
)

// UnclassifiedNotice lists the entries of one project that did not count
// towards points.
type UnclassifiedNotice struct {
	CompanyName string
	ProjectName string
	Entries     []impact.Entry
}

// ReviewNotifier tells a human about entries whose metric is not recognized.
type ReviewNotifier interface {
	NotifyUnclassified(ctx context.Context, notice UnclassifiedNotice) error
}

// EmailReviewNotifier sends review notices by e-mail.
type EmailReviewNotifier struct {
	emailService *email.Service
	recipient    string
}

func NewEmailReviewNotifier(emailService *email.Service, recipient string) *EmailReviewNotifier {
	return &EmailReviewNotifier{emailService: emailService, recipient: recipient}
}

func (n *EmailReviewNotifier) NotifyUnclassified(ctx context.Context, notice UnclassifiedNotice) error {
	slog.InfoContext(ctx, "sending unclassified metrics notice", "recipient", n.recipient, "project", notice.ProjectName, "count", len(notice.Entries))
	return mailer.SendUnclassifiedMetrics(n.emailService, n.recipient, mailer.UnclassifiedMetricsTemplateData{
		CompanyName: notice.CompanyName,
		ProjectName: notice.ProjectName,
		Entries:     notice.Entries,
	})
}
