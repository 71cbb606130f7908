// internal/email/mailer/unclassified_metrics.go
package mailer

import (
	"fmt"

	"github.com/dangerclosesec/greenhug/internal/email"
	"github.com/dangerclosesec/greenhug/internal/impact"
)

const UnclassifiedMetricsTemplate = "unclassified_metrics"

// UnclassifiedMetricsTemplateData contains data for the review notice template
type UnclassifiedMetricsTemplateData struct {
	CompanyName  string
	ProjectName  string
	Entries      []impact.Entry
	KnownMetrics []string
}

// SendUnclassifiedMetrics asks a reviewer to look at project entries whose
// metric did not count towards impact points.
func SendUnclassifiedMetrics(s *email.Service, to string, data UnclassifiedMetricsTemplateData) error {
	if data.KnownMetrics == nil {
		data.KnownMetrics = impact.KnownMetrics()
	}

	emailData := email.EmailData{
		To:           to,
		FromName:     "Greenhug",
		Subject:      fmt.Sprintf("Greenhug: %d metric(s) pending review in %s", len(data.Entries), data.ProjectName),
		TemplateName: UnclassifiedMetricsTemplate,
		TemplateData: data,
	}

	return s.SendEmail(emailData)
}
