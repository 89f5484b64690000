// Package notifier отправляет пользователям письма о состоянии подписки
// по сообщениям из очередей RabbitMQ.
package notifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/streamhub/streamhub/internal/lib/sl"
	smtpclient "github.com/streamhub/streamhub/internal/lib/smtp"
	"github.com/streamhub/streamhub/internal/models"
)

// Service отправляет письма-уведомления через SMTP транспорт.
type Service struct {
	transport smtpclient.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtpclient.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendUpcomingExpiry отправляет письмо о подписке, истекающей в ближайшие сутки.
func (s *Service) SendUpcomingExpiry(body []byte) error {
	var message models.SubscriptionInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Уведомление о скором окончании подписки StreamHub"
	bodyText := fmt.Sprintf(
		"Здравствуйте, %s!\n\nВаша подписка на тарифный план %s заканчивается %s.\n\nПожалуйста, продлите её заранее, чтобы не потерять доступ к премиум-контенту.",
		message.Username, message.PlanName, message.EndDate.Format("02.01.2006"))

	return s.sendEmail(to, subject, bodyText)
}

// SendExpiredNotice отправляет письмо о подписке, переведенной в EXPIRED.
func (s *Service) SendExpiredNotice(body []byte) error {
	var message models.SubscriptionInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if message.Email == "" {
		// Сообщение обхода содержит только ID подписки, письмо отправлять некому.
		s.log.Info("subscription expired", slog.Int64("subscription_id", message.SubscriptionID))
		return nil
	}

	to := []string{message.Email}
	subject := "Подписка StreamHub завершена"
	bodyText := fmt.Sprintf(
		"Здравствуйте, %s!\n\nСрок действия вашей подписки на тарифный план %s истёк. Премиум-контент больше недоступен.\n\nОформите новую подписку, чтобы вернуть доступ.",
		message.Username, message.PlanName)

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
