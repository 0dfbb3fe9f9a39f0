package mailer

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/namnguyen191/Natours-API/internal/dto"
	"github.com/namnguyen191/Natours-API/internal/helper/utils"
)

// EventHandler dispatches queued mail events by their message key.
type EventHandler struct {
	mail *MailService
}

func NewEventHandler(mail *MailService) *EventHandler {
	return &EventHandler{mail: mail}
}

func (h *EventHandler) HandleMessage(key string, value []byte) error {
	switch key {
	case dto.EventWelcome:
		var event dto.WelcomeEmailEvent
		if err := json.Unmarshal(value, &event); err != nil {
			log.Printf("invalid welcome event payload: %s", value)
			return err
		}
		return h.mail.SendWelcome(event.Email, utils.FirstName(event.Name), event.URL)

	case dto.EventPasswordReset:
		var event dto.PasswordResetEvent
		if err := json.Unmarshal(value, &event); err != nil {
			log.Printf("invalid password reset event payload: %s", value)
			return err
		}
		return h.mail.SendPasswordReset(event.Email, utils.FirstName(event.Name), event.ResetURL)

	default:
		return fmt.Errorf("unknown event key %q", key)
	}
}
