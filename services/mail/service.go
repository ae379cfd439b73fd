package mail

import (
	"errors"
	"fmt"
	"time"

	"github.com/institutsaintjean/evalhub/config"
	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/user"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	config *config.MailConfig
	client *mail.Client
	db     *gorm.DB
	users  *user.Service
	logger *logging.Service
}

func NewService(cfg *config.MailConfig, db *gorm.DB, users *user.Service, logger *logging.Service) (*Service, error) {
	service := &Service{
		config: cfg,
		db:     db,
		users:  users,
		logger: logger,
	}

	if !cfg.Enabled {
		if logger != nil {
			logger.Info("mail service disabled; deliveries will be recorded but not sent")
		}
		return service, nil
	}

	clientOpts := []mail.Option{
		mail.WithPort(cfg.Port),
	}
	if cfg.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username))
	}
	if cfg.Password != "" {
		clientOpts = append(clientOpts, mail.WithPassword(cfg.Password))
	}

	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		if logger != nil {
			logger.Error("failed to create mail client",
				zap.Error(err),
				zap.String("host", cfg.Host),
				zap.Int("port", cfg.Port))
		}
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	service.client = client

	if logger != nil {
		logger.Info("mail service initialized",
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port))
	}
	return service, nil
}

func (s *Service) newMessage() (*mail.Msg, error) {
	message := mail.NewMsg()

	fromAddr := s.config.From
	if s.config.FromName != "" {
		fromAddr = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	if err := message.From(fromAddr); err != nil {
		return nil, fmt.Errorf("failed to set FROM address: %w", err)
	}
	return message, nil
}

func (s *Service) deliver(to, subject, body string) error {
	if s.client == nil {
		return nil
	}

	message, err := s.newMessage()
	if err != nil {
		return err
	}
	if err := message.To(to); err != nil {
		return fmt.Errorf("failed to set TO address: %w", err)
	}
	message.Subject(subject)
	message.SetBodyString(mail.TypeTextPlain, body)

	return s.client.DialAndSend(message)
}

var ErrNoRecipients = errors.New("no recipients")

type ManualEmailInput struct {
	Subject    string
	Message    string
	Recipients []Recipient
	QuizID     *uint
	ClassID    *uint
	CreatedBy  uint
}

// SendManual delivers an ad-hoc campaign written by an admin. When no
// explicit recipients are given, the class roster is addressed instead.
func (s *Service) SendManual(input ManualEmailInput) (*Email, error) {
	recipients := input.Recipients
	if len(recipients) == 0 && input.ClassID != nil {
		students, err := s.users.StudentsInClass(*input.ClassID)
		if err != nil {
			return nil, err
		}
		for _, student := range students {
			recipients = append(recipients, Recipient{
				Email: student.Email,
				Name:  student.FirstName + " " + student.LastName,
			})
		}
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	for i := range recipients {
		recipients[i].Status = RecipientPending
	}

	email := &Email{
		Subject:    input.Subject,
		Message:    input.Message,
		Recipients: recipients,
		Type:       TypeManual,
		QuizID:     input.QuizID,
		ClassID:    input.ClassID,
		CreatedBy:  input.CreatedBy,
	}
	if err := s.SendToRecipients(email); err != nil {
		return nil, err
	}
	return email, nil
}

// SendToRecipients delivers one message per recipient and persists the
// campaign record with per-recipient outcomes.
func (s *Service) SendToRecipients(email *Email) error {
	email.Status = StatusSending
	email.TotalRecipients = len(email.Recipients)

	if err := s.db.Create(email).Error; err != nil {
		return fmt.Errorf("failed to record email: %w", err)
	}

	for i := range email.Recipients {
		recipient := &email.Recipients[i]
		if err := s.deliver(recipient.Email, email.Subject, email.Message); err != nil {
			recipient.Status = RecipientFailed
			recipient.Error = err.Error()
			email.FailedCount++
			if s.logger != nil {
				s.logger.Warn("email delivery failed",
					zap.String("recipient", recipient.Email),
					zap.Error(err))
			}
			continue
		}
		recipient.Status = RecipientSent
		email.SuccessCount++
	}

	now := time.Now()
	email.SentAt = &now
	if email.FailedCount == 0 {
		email.Status = StatusSent
	} else {
		email.Status = StatusFailed
	}

	if err := s.db.Save(email).Error; err != nil {
		return fmt.Errorf("failed to update email record: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("email campaign finished",
			zap.Uint("email_id", email.ID),
			zap.Int("sent", email.SuccessCount),
			zap.Int("failed", email.FailedCount))
	}
	return nil
}

// NotifyQuizPublished implements the quiz service's publish hook: announce
// the new quiz to every student of the class. Best effort by contract.
func (s *Service) NotifyQuizPublished(quizID uint, title string, classID uint) {
	students, err := s.users.StudentsInClass(classID)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to resolve quiz notification recipients",
				zap.Uint("quiz_id", quizID),
				zap.Error(err))
		}
		return
	}
	if len(students) == 0 {
		return
	}

	recipients := make([]Recipient, 0, len(students))
	for _, student := range students {
		recipients = append(recipients, Recipient{
			Email:  student.Email,
			Name:   student.FirstName + " " + student.LastName,
			Status: RecipientPending,
		})
	}

	email := &Email{
		Subject:    fmt.Sprintf("Nouveau quiz disponible : %s", title),
		Message:    fmt.Sprintf("Le quiz « %s » est maintenant disponible. Connectez-vous pour y répondre avant la date limite.", title),
		Recipients: recipients,
		Type:       TypeQuizPublication,
		QuizID:     &quizID,
		ClassID:    &classID,
	}

	if err := s.SendToRecipients(email); err != nil && s.logger != nil {
		s.logger.Error("quiz publication notification failed",
			zap.Uint("quiz_id", quizID),
			zap.Error(err))
	}
}

func (s *Service) ListEmails() ([]Email, error) {
	var emails []Email
	if err := s.db.Order("created_at DESC").Find(&emails).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return emails, nil
}
