package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"carvis-engine/internal/config"
	"carvis-engine/internal/events"
	"carvis-engine/internal/inbox"
	"carvis-engine/internal/track"
)

type ScanHandler struct {
	App        *track.App
	CfgVal     *atomic.Value // config.Config
	ScanStatus *atomic.Value // inbox.Status
	Hub        *events.Hub
	Scanner    *inbox.Scanner
}

func (h ScanHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.ScanStatus.Load().(inbox.Status)
	writeJSON(w, st)
}

// Run kicks off one scan in the background. A second request while one is
// in flight is refused rather than queued.
func (h ScanHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := h.ScanStatus.Load().(inbox.Status)
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	h.ScanStatus.Store(inbox.Status{
		LastRunAt:  time.Now().Format(time.RFC3339),
		Running:    true,
		LastOkAt:   st.LastOkAt,
		LastSource: st.LastSource,
	})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		cfg := h.CfgVal.Load().(config.Config)
		out := h.Scanner.Scan(ctx, cfg, h.App.User(), h.App.Snapshot())
		h.App.AddScanNotification(out.Notification, track.ScanResult{
			Comfort: out.Comfort,
			JobID:   out.JobID,
		})
		h.Hub.Publish(events.MakeEvent("", events.TypeScanFinished, 1, map[string]any{
			"source": out.Source,
		}))

		now := time.Now().Format(time.RFC3339)
		next := h.ScanStatus.Load().(inbox.Status)
		next.Running = false
		next.LastRunAt = now
		next.LastOkAt = now
		next.LastError = ""
		next.LastSource = out.Source
		h.ScanStatus.Store(next)
	}()

	writeJSON(w, map[string]any{"ok": true})
}
