package middleware

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/auth"
)

// RedactOptions configures RedactingLogger.
type RedactOptions struct {
	// MaskHeaders are replaced with "[REDACTED]" on top of Authorization,
	// Cookie and Set-Cookie. Case-insensitive.
	MaskHeaders []string
	// MaskQuery are query parameters whose values are replaced entirely,
	// on top of "search". Case-insensitive.
	MaskQuery []string
}

var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// phoneRE matches 8 to 15 digits, optionally led by "+", with single
	// spaces, dots or hyphens between any of them.
	phoneRE = regexp.MustCompile(`(?:\+|\b)\d(?:[ .\-]?\d){7,14}\b`)
)

// scrub masks ids, emails and phone numbers in s. Ids go first so the phone
// pattern cannot bite into UUID segments.
func scrub(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

func lowerSet(base []string, extra []string) map[string]struct{} {
	out := make(map[string]struct{}, len(base)+len(extra))
	for _, v := range append(base, extra...) {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}

// RedactingLogger is the access logger used in front of contact data. It
// never logs bodies, masks credentials and free-text search, and scrubs
// personal identifiers from the remaining query and header values. Like
// Logger it attaches the request-scoped logger to both contexts.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	maskHeaders := lowerSet([]string{"authorization", "cookie", "set-cookie"}, opts.MaskHeaders)
	maskQuery := lowerSet([]string{"search"}, opts.MaskQuery)

	redactQuery := func(raw string) string {
		if raw == "" {
			return ""
		}
		vals, err := url.ParseQuery(raw)
		if err != nil {
			return scrub(truncate(raw, maxQueryLogLength))
		}
		keys := make([]string, 0, len(vals))
		for k := range vals {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			v := strings.Join(vals[k], ",")
			if _, ok := maskQuery[strings.ToLower(k)]; ok {
				v = "[REDACTED]"
			} else {
				v = scrub(v)
			}
			parts = append(parts, k+"="+v)
		}
		return truncate(strings.Join(parts, "&"), maxQueryLogLength)
	}

	return func(c *gin.Context) {
		start := time.Now()

		headers := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				headers[k] = "[REDACTED]"
				continue
			}
			headers[k] = scrub(strings.Join(vv, ", "))
		}

		l := log.With().
			Str("request_id", GetRequestID(c)).
			Str("user_id", auth.ContextAuthorizer{}.UserID(c.Request.Context())).
			Str("method", c.Request.Method).
			Str("path", routeOf(c)).
			Logger()
		attachLogger(c, l)

		c.Next()

		status := c.Writer.Status()
		ev := l.Info()
		switch {
		case status >= 500 || len(c.Errors) > 0:
			ev = l.Error()
		case status >= 400:
			ev = l.Warn()
		}
		ev.
			Str("query", redactQuery(c.Request.URL.RawQuery)).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("http_request")
	}
}
