package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from, opsInbox string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		OpsInbox: opsInbox,
	}
}

// SendEnrollmentNotice avisa o titular que o cadastro na MEDICAR foi feito.
func (s *EmailSender) SendEnrollmentNotice(to, name string) error {
	data := EnrollmentEmailData{Name: name}

	tmplPath := filepath.Join("templates", "cadastro.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("%s, seu plano de saúde está ativo! 🎉", name))
	m.SetBody("text/html", body.String())

	return s.send(m)
}

// SendFailureAlert notifica a operação sobre um evento que terminou em erro.
func (s *EmailSender) SendFailureAlert(clientID, cpf, motivo string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.OpsInbox)
	m.SetHeader("Subject", fmt.Sprintf("⚠️ Falha de integração TENEX→MEDICAR (cliente %s)", clientID))
	m.SetBody("text/plain", fmt.Sprintf("Cliente: %s\nCPF: %s\nMotivo: %s\n", clientID, cpf, motivo))

	return s.send(m)
}

func (s *EmailSender) send(m *gomail.Message) error {
	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}
