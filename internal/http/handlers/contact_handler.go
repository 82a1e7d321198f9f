// Contact request submission.
//
//   - POST /contact-requests (public; JSON or form)
package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/http/middleware"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/services"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/validation"
)

// HeaderReplay marks a response served from an earlier submission with the
// same Idempotency-Key.
const HeaderReplay = "Idempotent-Replay"

const maxFormMemory = 1 << 20

// attachmentFieldRE matches form keys like attachments[0].url. Every index
// is kept so validation sees the real number of attachments.
var attachmentFieldRE = regexp.MustCompile(`^attachments\[(\d+)\]\.(url|name)$`)

// formFieldNames maps JSON field paths to the names the site's form posts,
// where they differ.
var formFieldNames = map[string]string{"full_name": "fullName"}

// CreateContactRequest godoc
// @ID          createContactRequest
// @Summary     Submit a contact request
// @Description Public endpoint behind the contact and appointment forms. Accepts JSON or form data (fullName, email, subject, message, attachments[i].url, attachments[i].name). The request is always created as PENDING and the practice is notified by email. With an Idempotency-Key, retries replay the first submission.
// @Tags        ContactRequests
// @Accept      json,x-www-form-urlencoded,mpfd
// @Produce     json
//
// @Param       Idempotency-Key  header  string                      false  "Retry-safe submission key"  example(form-7f3c2a)
// @Param       body             body    validation.CreateInput      true   "Contact request"
//
// @Success     201  {object}  domain.Result[domain.ContactRequest]  "Created (or saved with notification failure)"
// @Success     200  {object}  domain.Result[domain.ContactRequest]  "Replay of an earlier submission"
// @Failure     400  {object}  domain.Result[domain.ContactRequest]  "Validation error"
// @Failure     429  {object}  handlers.ErrorResponse                "Rate limited"
// @Failure     500  {object}  domain.Result[domain.ContactRequest]  "Storage failure"
// @Router      /contact-requests [post]
func (h *Handlers) CreateContactRequest(c *gin.Context) {
	in, form, err := bindSubmission(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	key, _ := middleware.GetIdempotencyKey(c)
	if middleware.IsReplay(c) {
		middleware.LoggerFrom(c).Debug().Msg("idempotency key already used, replaying")
	}

	res, replayed := h.submit.Create(c.Request.Context(), services.CreateInput{CreateInput: in, IdempotencyKey: key})
	if form {
		res.ValidationErrors = toFormFields(res.ValidationErrors)
	}
	if replayed {
		c.Header(HeaderReplay, "true")
		respond(c, res, http.StatusOK)
		return
	}
	respond(c, res, http.StatusCreated)
}

// bindSubmission decodes a JSON or form body. form reports which one it was.
func bindSubmission(c *gin.Context) (in validation.CreateInput, form bool, err error) {
	if c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&in); err != nil {
			return in, false, errors.New("invalid JSON body")
		}
		return in, false, nil
	}
	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return in, true, errors.New("invalid form body")
	}
	return submissionFromForm(c.Request.PostForm), true, nil
}

// toFormFields renames validation error keys to the form's field names.
func toFormFields(fields map[string][]string) map[string][]string {
	if len(fields) == 0 {
		return fields
	}
	out := make(map[string][]string, len(fields))
	for k, v := range fields {
		if name, ok := formFieldNames[k]; ok {
			k = name
		}
		out[k] = v
	}
	return out
}

// submissionFromForm maps the form field names used by the site onto
// CreateInput. Attachments keep their index order.
func submissionFromForm(form url.Values) validation.CreateInput {
	in := validation.CreateInput{
		FullName: form.Get("fullName"),
		Email:    form.Get("email"),
		Subject:  form.Get("subject"),
		Message:  form.Get("message"),
	}

	// Indices are compared as canonical digit strings so that very large
	// ones stay distinct.
	byIndex := map[string]*validation.AttachmentInput{}
	for k, v := range form {
		m := attachmentFieldRE.FindStringSubmatch(k)
		if m == nil || len(v) == 0 {
			continue
		}
		i := strings.TrimLeft(m[1], "0")
		a := byIndex[i]
		if a == nil {
			a = &validation.AttachmentInput{}
			byIndex[i] = a
		}
		if m[2] == "url" {
			a.URL = v[0]
		} else {
			a.Name = v[0]
		}
	}
	idx := make([]string, 0, len(byIndex))
	for i := range byIndex {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(x, y int) bool {
		if len(idx[x]) != len(idx[y]) {
			return len(idx[x]) < len(idx[y])
		}
		return idx[x] < idx[y]
	})
	for _, i := range idx {
		in.Attachments = append(in.Attachments, *byIndex[i])
	}
	return in
}
