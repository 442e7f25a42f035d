package infra

import (
	"fmt"
	"net/smtp"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer envía los recibos por SMTP usando jordan-wright/email. El adjunto es
// el PDF del ticket que el worker ya dejó en disco.
type Mailer struct {
	from string
	addr string
	auth smtp.Auth
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		from: cfg.SMTPFrom,
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost),
	}
}

// SendRecibo manda el comprobante al email del cliente. Con pdfPath vacío va
// solo el cuerpo de texto.
func (m *Mailer) SendRecibo(to, subject, body, pdfPath string) error {
	msg := email.NewEmail()
	msg.From = m.from
	msg.To = []string{to}
	msg.Subject = subject
	msg.Text = []byte(body)

	if pdfPath != "" {
		if _, err := msg.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: adjuntar PDF: %w", err)
		}
	}
	return msg.Send(m.addr, m.auth)
}
