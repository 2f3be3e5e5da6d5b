// Package bot wires the Telegram long-polling dispatch loop.
package bot

import (
	"time"

	"gopkg.in/telebot.v3"

	usersvc "github.com/your-org/miniapp-backend/internal/features/user/service"
)

// New builds the bot with all command handlers registered.
func New(token string, users usersvc.UserService) (*telebot.Bot, error) {
	b, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}

	b.Handle("/start", StartHandlerFunc(users))
	// Register new command handlers here.

	return b, nil
}
