package audit

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides structured audit logging for account and review events.
type Logger struct {
	log zerolog.Logger
}

// New creates a new audit logger
func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Record logs one audit event. It matches the audit hook taken by the
// application services. Failed results are logged at warn level.
func (l *Logger) Record(action string, fields map[string]string) {
	ev := l.log.Info()
	if r := fields["result"]; r != "" && r != "success" {
		ev = l.log.Warn()
	}
	ev = ev.Str("action", action)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := fields[k]
		if k == "email" {
			v = maskEmail(v)
		}
		ev = ev.Str(k, v)
	}
	ev.Msg(message(action))
}

func message(action string) string {
	switch action {
	case "auth.register":
		return "User registration"
	case "auth.login":
		return "User login"
	case "jobs.apply":
		return "Job application submitted"
	case "jobs.decide":
		return "Job application decided"
	default:
		return "Audit event"
	}
}

// maskEmail partially masks email for privacy in logs
func maskEmail(email string) string {
	if len(email) < 5 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return email[:2] + "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
