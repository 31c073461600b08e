package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims and dedupes list fields, fills defaults for
// zero values, and reports anything that would make the engine misbehave.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Email.SearchSubjectAny = trimList(out.Email.SearchSubjectAny)
	if len(out.Email.SearchSubjectAny) == 0 {
		out.Email.SearchSubjectAny = []string{"application", "update", "interview"}
	}
	if out.Email.Mailbox == "" {
		out.Email.Mailbox = "INBOX"
	}
	if out.Email.MaxMessages <= 0 {
		out.Email.MaxMessages = 20
	}

	if out.AI.Model == "" {
		out.AI.Model = "gpt-4o-mini"
	}
	if out.AI.CuratedCount <= 0 {
		out.AI.CuratedCount = 4
	}
	if out.AI.DiscoverCount <= 0 {
		out.AI.DiscoverCount = 12
	}
	if out.AI.RequestsPerSec <= 0 {
		out.AI.RequestsPerSec = 1.0
	}

	if out.Notify.RecomputeSeconds <= 0 {
		out.Notify.RecomputeSeconds = 60
	} else if out.Notify.RecomputeSeconds < 5 {
		res.addWarn("notify.recompute_seconds is very low (%d); reminders are date-based and don't need it.", out.Notify.RecomputeSeconds)
	}

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if out.Email.IMAPPort == 0 {
			res.addErr("email.imap_port is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
	}

	if out.AI.Enabled && out.AI.BaseURL != "" &&
		!strings.HasPrefix(out.AI.BaseURL, "http://") && !strings.HasPrefix(out.AI.BaseURL, "https://") {
		res.addErr("ai.base_url must be an http(s) URL")
	}

	return out, res
}
