package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"realty/internal/domain"
)

type ContactService struct {
	outbox domain.Outbox
	now    func() time.Time
}

func NewContactService(o domain.Outbox) *ContactService {
	return &ContactService{outbox: o, now: time.Now}
}

// Submit validates the form and hands it to the outbox.
func (s *ContactService) Submit(ctx context.Context, f ContactForm) (domain.ContactMessage, error) {
	if err := f.Validate().OrNil(); err != nil {
		return domain.ContactMessage{}, err
	}
	m := domain.ContactMessage{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(f.Name),
		Email:      strings.TrimSpace(f.Email),
		Phone:      strings.TrimSpace(f.Phone),
		Subject:    strings.TrimSpace(f.Subject),
		Message:    strings.TrimSpace(f.Message),
		Newsletter: f.Newsletter,
		ReceivedAt: s.now().UTC(),
	}
	if err := s.outbox.Send(ctx, m); err != nil {
		return domain.ContactMessage{}, err
	}
	return m, nil
}

// LogOutbox records messages in the log only. Used when no broker is configured.
type LogOutbox struct{}

func (LogOutbox) Send(ctx context.Context, m domain.ContactMessage) error {
	log.Info().
		Str("id", m.ID).
		Str("email", m.Email).
		Str("subject", m.Subject).
		Bool("newsletter", m.Newsletter).
		Msg("contact message received")
	return nil
}
