package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/telebot.v3"

	"github.com/your-org/miniapp-backend/internal/auth"
	apperrors "github.com/your-org/miniapp-backend/internal/common/errors"
	"github.com/your-org/miniapp-backend/internal/common/logger"
	usersvc "github.com/your-org/miniapp-backend/internal/features/user/service"
)

const handlerTimeout = 10 * time.Second

// StartHandlerFunc greets the user and makes sure a user record exists.
func StartHandlerFunc(users usersvc.UserService) telebot.HandlerFunc {
	return func(tgCtx telebot.Context) error {
		sender := tgCtx.Sender()
		if sender == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		user, created, err := users.GetOrCreateUser(ctx, senderIdentity(sender))
		if err != nil {
			logger.Error().Err(err).Int64("user_id", sender.ID).Msg("start: failed to get or create user")
			return send(tgCtx, "Something went wrong, please try again later.")
		}

		name := user.FirstName
		if name == "" {
			name = "friend"
		}
		if created {
			return send(tgCtx, fmt.Sprintf("Hi, %s! Welcome aboard.", name))
		}
		return send(tgCtx, fmt.Sprintf("Welcome back, %s!", name))
	}
}

func send(tgCtx telebot.Context, text string) error {
	if err := tgCtx.Send(text); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeTelegramAPI, "Failed to send message")
	}
	return nil
}

// senderIdentity adapts a message sender into the identity shape the user
// service consumes. Bot updates come straight from Telegram, so the claim
// is authoritative: Raw is populated to allow display-field refreshes.
func senderIdentity(sender *telebot.User) *auth.User {
	identity := &auth.User{
		ID:           sender.ID,
		FirstName:    sender.FirstName,
		LastName:     sender.LastName,
		Username:     sender.Username,
		LanguageCode: sender.LanguageCode,
		IsPremium:    sender.IsPremium,
	}
	raw, err := json.Marshal(identity)
	if err == nil {
		identity.Raw = raw
	}
	return identity
}
