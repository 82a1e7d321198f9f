package notify

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
)

var contactTmpl = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html lang="fr">
<body style="font-family:sans-serif;color:#1f2933">
<h2>Nouvelle demande de contact</h2>
<table cellpadding="4">
<tr><td><strong>Nom</strong></td><td>{{.FullName}}</td></tr>
<tr><td><strong>Email</strong></td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
<tr><td><strong>Objet</strong></td><td>{{.Subject}}</td></tr>
<tr><td><strong>Reçue le</strong></td><td>{{.Received}}</td></tr>
</table>
<p style="white-space:pre-wrap">{{.Message}}</p>
{{- if .Attachments}}
<h3>Pièces jointes</h3>
<ul>
{{- range .Attachments}}
<li><a href="{{.URL}}">{{.Filename}}</a></li>
{{- end}}
</ul>
{{- end}}
<p style="color:#7b8794;font-size:12px">Référence {{.ID}}</p>
</body>
</html>
`))

type contactView struct {
	ID          string
	FullName    string
	Email       string
	Subject     string
	Message     string
	Received    string
	Attachments []domain.Attachment
}

var titleCaser = cases.Title(language.French)

// SubjectLine builds the email subject for r: the visitor's subject in title
// case followed by their name.
func SubjectLine(r *domain.ContactRequest) string {
	subject := strings.TrimSpace(r.Subject)
	if subject == "" {
		subject = "Contact"
	}
	return "[Contact] " + titleCaser.String(subject) + " - " + r.FullName
}

// RenderContactRequest renders the HTML body announcing r. All visitor text
// is escaped.
func RenderContactRequest(r *domain.ContactRequest, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	var buf bytes.Buffer
	err := contactTmpl.Execute(&buf, contactView{
		ID:          r.ID,
		FullName:    r.FullName,
		Email:       r.Email,
		Subject:     r.Subject,
		Message:     r.Message,
		Received:    r.CreatedAt.In(loc).Format("02/01/2006 15:04"),
		Attachments: r.Attachments,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
