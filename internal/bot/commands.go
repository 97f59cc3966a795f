package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/thekoalas/koalabot/internal/domain"
	"github.com/thekoalas/koalabot/internal/notify"
	"github.com/thekoalas/koalabot/internal/platform/telegram"
)

// Amount-filtered listing commands, e.g. "buyp2p_100000".
var (
	buyAmountRe  = regexp.MustCompile(`(?i)^/?buyp2p_(.+)$`)
	sellAmountRe = regexp.MustCompile(`(?i)^/?sellp2p_(.+)$`)
)

// handle routes one incoming message to its command handler.
func (b *Bot) handle(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}

	// Normalize "/cmd@BotName args" down to the bare command.
	cmd := fields[0]
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}

	switch strings.ToLower(cmd) {
	case "/start":
		b.reply(ctx, chatID, "Koala Overlord 🐨 welcomes you.")
	case "/buyp2p":
		b.handleListings(ctx, chatID, domain.TradeTypeBuy, "")
	case "/sellp2p":
		b.handleListings(ctx, chatID, domain.TradeTypeSell, "")
	case "/arbp2p":
		b.handleArbitrage(ctx, chatID)
	case "/watchp2p":
		b.handleWatch(ctx, chatID)
	case "/unwatchp2p":
		b.handleUnwatch(ctx, chatID)
	default:
		if m := buyAmountRe.FindStringSubmatch(cmd); m != nil {
			b.handleListings(ctx, chatID, domain.TradeTypeBuy, m[1])
			return
		}
		if m := sellAmountRe.FindStringSubmatch(cmd); m != nil {
			b.handleListings(ctx, chatID, domain.TradeTypeSell, m[1])
			return
		}
		b.reply(ctx, chatID, "Sorry, I don't understand that command yet.")
	}
}

// handleListings serves both directions and both the plain and the
// amount-filtered variants of the listing commands.
func (b *Bot) handleListings(ctx context.Context, chatID int64, tradeType domain.TradeType, amount string) {
	// Counter-party of a Buy-direction ad is a seller, and vice versa.
	side := "SELLERS"
	if tradeType == domain.TradeTypeSell {
		side = "BUYERS"
	}

	query := domain.AdQuery{
		Asset:       b.cfg.Asset,
		Fiat:        b.cfg.Fiat,
		TradeType:   tradeType,
		TransAmount: amount,
	}

	orders, err := b.ads.TopAds(ctx, query)
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		b.reply(ctx, chatID, fmt.Sprintf(`Please use the correct format. (e.g. "%sp2p_100000")`,
			strings.ToLower(string(tradeType))))
		return
	case err != nil:
		b.logger.ErrorContext(ctx, "listing fetch failed",
			slog.String("trade_type", string(tradeType)),
			slog.String("error", err.Error()),
		)
		b.reply(ctx, chatID, "Sorry, the marketplace did not answer. Please try again later.")
		return
	}

	if len(orders) == 0 {
		if amount == "" {
			if tradeType == domain.TradeTypeBuy {
				b.reply(ctx, chatID, fmt.Sprintf("Sorry! No one is selling %s at the moment.", b.cfg.Asset))
			} else {
				b.reply(ctx, chatID, fmt.Sprintf("Sorry! No one is buying %s at the moment.", b.cfg.Asset))
			}
			return
		}
		b.reply(ctx, chatID, fmt.Sprintf("Sorry! No %s found for %s %s.",
			side, formatAmount(amount), b.cfg.Fiat))
		return
	}

	var prefix string
	if amount == "" {
		prefix = fmt.Sprintf("🐨 %d Best Binance P2P %s 🐨\n\n", len(orders), side)
	} else {
		prefix = fmt.Sprintf("🐨 %d Binance P2P %s For %s %s 🐨\n\n",
			len(orders), side, formatAmount(amount), b.cfg.Fiat)
	}

	b.reply(ctx, chatID, prefix+b.renderer.Listings(orders, query)+brandingText)
}

// handleArbitrage runs one immediate detection cycle and reports the result.
func (b *Bot) handleArbitrage(ctx context.Context, chatID int64) {
	opp, err := b.detector.Detect(ctx)
	if err != nil {
		b.logger.ErrorContext(ctx, "arbitrage check failed", slog.String("error", err.Error()))
		b.reply(ctx, chatID, "Sorry, the marketplace did not answer. Please try again later.")
		return
	}
	if opp == nil {
		b.reply(ctx, chatID, fmt.Sprintf("No arbitrage spread on %s/%s right now.",
			b.cfg.Asset, b.cfg.Fiat))
		return
	}
	b.reply(ctx, chatID, b.renderer.Opportunity(opp)+"\n"+brandingText)
}

func (b *Bot) handleWatch(ctx context.Context, chatID int64) {
	if !b.watcher.Start(ctx, chatID) {
		b.reply(ctx, chatID, "Already watching this chat.")
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf("🔭 Watching %s/%s for arbitrage spreads. I'll ping you when the picture changes.",
		b.cfg.Asset, b.cfg.Fiat))
}

func (b *Bot) handleUnwatch(ctx context.Context, chatID int64) {
	if !b.watcher.Stop(chatID) {
		b.reply(ctx, chatID, "No watch is running for this chat.")
		return
	}
	b.reply(ctx, chatID, "Stopped watching this chat.")
}

// formatAmount pretty-prints a user-supplied numeric amount with thousand
// separators, falling back to the raw text when it does not parse.
func formatAmount(amount string) string {
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return amount
	}
	return notify.Thousands(v, 0)
}
