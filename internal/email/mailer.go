// Package email delivers transactional mail through an HTTP email API
// (Resend-compatible payload shape).  Delivery is best-effort: the
// consumer logs failures and moves on.
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Mailer posts messages to a Resend-style /emails endpoint.  An empty
// APIURL or APIKey disables sending; Send then reports an error so the
// caller can log the skip.
type Mailer struct {
	APIURL  string
	APIKey  string
	From    string
	AppName string
	Client  *http.Client
}

// NewMailer builds a Mailer with a bounded HTTP client.
func NewMailer(apiURL, apiKey, from, appName string) *Mailer {
	return &Mailer{
		APIURL:  apiURL,
		APIKey:  apiKey,
		From:    from,
		AppName: appName,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Message is one outbound email.
type Message struct {
	To      []string `json:"to"`
	From    string   `json:"from"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts the message to the email API.
func (m *Mailer) Send(msg Message) error {
	if m.APIURL == "" || m.APIKey == "" {
		return fmt.Errorf("mailer not configured")
	}
	if msg.From == "" {
		msg.From = m.From
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, m.APIURL+"/emails", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.APIKey)

	resp, err := m.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email api status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

// SendWelcome sends the post-registration welcome email.
func (m *Mailer) SendWelcome(to, name string) error {
	if name == "" {
		name = "there"
	}
	return m.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Welcome to %s", m.AppName),
		HTML:    welcomeHTML(name, m.AppName),
	})
}

func welcomeHTML(name, appName string) string {
	return fmt.Sprintf(`<html><body style="font-family:sans-serif">
<h2>Welcome to %s, %s!</h2>
<p>Your account is ready. Log in to create your first project and start
assigning tasks to your team.</p>
<p>- The %s team</p>
</body></html>`, appName, name, appName)
}
