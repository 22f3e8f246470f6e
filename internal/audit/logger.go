// Package audit writes business events as structured log lines tagged audit=true.
package audit

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Actions logged at warn level.
var warnActions = map[string]bool{
	"login_failed": true,
}

// Fields whose values are personal data and are masked before writing.
var masks = map[string]func(string) string{
	"email":  maskEmail,
	"mobile": maskMobile,
}

type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{log: log.With().Bool("audit", true).Logger()}
}

// Record matches the WithAudit hook of the application services.
// Fields are written in key order.
func (l *Logger) Record(action string, fields map[string]string) {
	level := zerolog.InfoLevel
	if warnActions[action] {
		level = zerolog.WarnLevel
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	evt := l.log.WithLevel(level).Str("action", action)
	for _, k := range keys {
		v := fields[k]
		if mask, ok := masks[k]; ok {
			v = mask(v)
		}
		evt = evt.Str(k, v)
	}
	evt.Msg("audit")
}

// maskEmail keeps up to two leading characters of the local part and the domain.
func maskEmail(email string) string {
	local, host, ok := strings.Cut(email, "@")
	if !ok || len(email) < 5 || local == "" {
		return "***"
	}
	keep := 2
	if len(local) < keep {
		keep = len(local)
	}
	return local[:keep] + "***@" + host
}

func maskMobile(mobile string) string {
	if len(mobile) <= 4 {
		return "***"
	}
	return "***" + mobile[len(mobile)-4:]
}
