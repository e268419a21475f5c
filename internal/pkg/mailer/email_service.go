package mailer

import (
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"
)

// ReconciliationAlert describes a submission that stopped after some chunks
// were already written to the store.
type ReconciliationAlert struct {
	Direction      string
	OperationID    string
	CustomerID     string
	AppliedChunks  int
	TotalChunks    int
	AppliedItemIDs []string
	PendingItemIDs []string
	Reason         string
}

type IEmailService interface {
	SendReconciliationAlert(toEmail string, alert ReconciliationAlert) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
	}
}

func (s *emailService) SendReconciliationAlert(toEmail string, alert ReconciliationAlert) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", alertSubject(alert))
	m.SetBody("text/html", alertBody(alert))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send reconciliation alert to %s: %w", toEmail, err)
	}
	return nil
}

func alertSubject(a ReconciliationAlert) string {
	scope := a.OperationID
	if scope == "" {
		scope = "customer " + a.CustomerID
	}
	return fmt.Sprintf("[Warehouse] Partial %s submission for %s", a.Direction, scope)
}

func alertBody(a ReconciliationAlert) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Submission stopped part way</h2>
			<p>%d of %d batches were written before the store returned an error:</p>
			<pre>%s</pre>
			<p><b>Already updated:</b> %s</p>
			<p><b>Not updated:</b> %s</p>
			<p>Re-submitting the same logs is safe; the updates only set field values.</p>
		</div>
	`,
		a.AppliedChunks, a.TotalChunks,
		html.EscapeString(a.Reason),
		html.EscapeString(joinOrNone(a.AppliedItemIDs)),
		html.EscapeString(joinOrNone(a.PendingItemIDs)),
	)
}

func joinOrNone(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}
