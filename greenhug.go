// Package greenhug holds assets shared by the Greenhug binaries.
package greenhug

import "embed"

// EmailFS contains the e-mail templates, one directory per template with an
// html.tmpl and a plaintext.tmpl.
//
//go:embed templates/emails
var EmailFS embed.FS
