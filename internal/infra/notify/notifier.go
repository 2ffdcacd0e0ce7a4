package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"smallbiz-billing/internal/config"
	"smallbiz-billing/internal/domain/ports/adapter"
)

// operatorNotifier fans a billing event out to the configured operator
// channels: an email to the admin inbox and a Telegram message per admin
// chat. A channel that is not configured is silently skipped.
type operatorNotifier struct {
	mailer     adapter.Mailer
	adminEmail string
	bot        *tgbotapi.BotAPI
	chatIDs    []int64
	log        zerolog.Logger
}

func NewOperatorNotifier(mailer adapter.Mailer, billing *config.BillingConfig, tg *config.TelegramConfig, log zerolog.Logger) (adapter.OperatorNotifier, error) {
	n := &operatorNotifier{
		mailer:     mailer,
		adminEmail: billing.AdminEmail,
		chatIDs:    tg.AdminChatIDs,
		log:        log.With().Str("component", "notifier").Logger(),
	}
	if tg.BotToken != "" {
		bot, err := tgbotapi.NewBotAPI(tg.BotToken)
		if err != nil {
			return nil, fmt.Errorf("failed to init telegram bot: %w", err)
		}
		n.bot = bot
	}
	return n, nil
}

func (n *operatorNotifier) NotifyProGrant(ctx context.Context, grant adapter.ProGrant) error {
	var lastErr error

	if n.mailer != nil && n.adminEmail != "" {
		subject := "New Pro subscription"
		text := fmt.Sprintf(
			"User %s (%s) upgraded to Pro.\nReference: %s\nActive until: %s",
			grant.UserID, grant.CustomerEmail, grant.Reference, grant.WindowEnd.Format("2006-01-02"),
		)
		if err := n.mailer.Send(ctx, n.adminEmail, subject, "", text); err != nil {
			n.log.Warn().Err(err).Str("user_id", grant.UserID).Msg("admin email notification failed")
			lastErr = err
		}
	}

	if n.bot != nil {
		text := fmt.Sprintf(
			"💰 Pro upgrade\nuser: %s\nemail: %s\nref: %s\nuntil: %s",
			grant.UserID, grant.CustomerEmail, grant.Reference, grant.WindowEnd.Format("2006-01-02"),
		)
		for _, chatID := range n.chatIDs {
			msg := tgbotapi.NewMessage(chatID, text)
			if _, err := n.bot.Send(msg); err != nil {
				n.log.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram notification failed")
				lastErr = err
			}
		}
	}

	return lastErr
}
