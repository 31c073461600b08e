package inbox

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"carvis-engine/internal/config"
)

// Message is the slice of an email the scanner cares about.
type Message struct {
	UID     imap.UID
	From    string
	Subject string
	Date    time.Time
	Preview string
}

// FetchRecent pulls envelopes from the configured mailbox, newest first,
// limited to the last three months and cfg.Email.MaxMessages entries.
// Bodies are fetched with BODY.PEEK[] so nothing is marked \Seen.
func FetchRecent(ctx context.Context, cfg config.Config, password string) ([]Message, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Email.IMAPHost, cfg.Email.IMAPPort)

	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: cfg.Email.IMAPHost},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}
	defer func() { _ = c.Close() }()

	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(cfg.Email.Username, password).Wait(); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}
	defer func() { _ = c.Logout().Wait() }()

	if _, err := c.Select(cfg.Email.Mailbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %s: %w", cfg.Email.Mailbox, err)
	}

	cutoff := time.Now().AddDate(0, -3, 0)
	searchData, err := c.UIDSearch(&imap.SearchCriteria{Since: cutoff}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return []Message{}, nil
	}

	// Newest first, capped.
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	max := cfg.Email.MaxMessages
	if max <= 0 {
		max = 20
	}
	if len(uids) > max {
		uids = uids[:max]
	}

	bodyAll := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	out := make([]Message, 0, len(uids))
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		var m Message
		m.UID = buf.UID
		if buf.Envelope != nil {
			m.Subject = buf.Envelope.Subject
			m.Date = buf.Envelope.Date
			m.From = joinAddrs(buf.Envelope.From)
		}
		if raw := buf.FindBodySection(bodyAll); len(raw) > 0 {
			if m.Subject == "" || m.Date.IsZero() {
				fillFromHeaders(&m, raw)
			}
			m.Preview = Preview(raw, 200)
		}
		out = append(out, m)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}
	return out, nil
}

func joinAddrs(addrs []imap.Address) string {
	parts := make([]string, 0, len(addrs))
	for i := range addrs {
		a := &addrs[i]
		addr := strings.TrimSpace(a.Addr())
		if addr == "" {
			addr = strings.TrimSpace(a.Name)
		}
		if addr != "" {
			parts = append(parts, addr)
		}
	}
	return strings.Join(parts, ", ")
}

// fillFromHeaders is a net/mail safety net for servers that return sparse
// envelopes.
func fillFromHeaders(m *Message, raw []byte) {
	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		return
	}
	h := msg.Header
	if m.Subject == "" {
		m.Subject = h.Get("Subject")
	}
	if m.From == "" {
		m.From = h.Get("From")
	}
	if m.Date.IsZero() {
		if t, err := mail.ParseDate(h.Get("Date")); err == nil {
			m.Date = t
		}
	}
}
