package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendConflictAlert(toEmail, documentName string, conflictCount int) error
	SendAnalysisFailed(toEmail, documentName string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

// SendConflictAlert notifies the owner that analysis found high severity
// conflicts touching one of their documents.
func (s *emailService) SendConflictAlert(toEmail, documentName string, conflictCount int) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("High severity conflicts found in %s", documentName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Conflicts Detected</h2>
			<p>Analysis of <b>%s</b> found <b>%d</b> high severity conflict(s) with your other documents.</p>
			<a href="%s/conflicts" style="background-color: #DC3545; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Review Conflicts</a>
			<p>Unresolved conflicts may indicate contradictory policies or compliance gaps.</p>
		</div>
	`, documentName, conflictCount, s.frontendURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send conflict alert to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Conflict alert sent to %s\n", toEmail)
	return nil
}

// SendAnalysisFailed notifies the owner that a document could not be analyzed.
func (s *emailService) SendAnalysisFailed(toEmail, documentName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Analysis failed for %s", documentName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Analysis Failed</h2>
			<p>We could not analyze <b>%s</b>. You can trigger a re-analysis from the dashboard, or upload a corrected file.</p>
			<a href="%s/documents" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open Dashboard</a>
		</div>
	`, documentName, s.frontendURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send analysis failure notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Analysis failure notice sent to %s\n", toEmail)
	return nil
}
