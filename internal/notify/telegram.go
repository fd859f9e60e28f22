package notify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const (
	// telegramMessageMaxLength 텔레그램 메시지 최대 길이(4096자)에 여유를 둔 값
	telegramMessageMaxLength = 3900

	telegramHTTPClientTimeout = 30 * time.Second

	telegramRateLimit = 1
	telegramRateBurst = 5

	telegramMaxAttempts = 3
	telegramRetryDelay  = 1 * time.Second
)

// botClient 테스트에서 대체할 수 있도록 tgbotapi.BotAPI에서 사용하는 메서드만 분리한 인터페이스
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram 텔레그램 봇으로 하나의 채팅방에 메시지를 보냅니다.
type Telegram struct {
	id     string
	chatID int64

	bot     botClient
	limiter *rate.Limiter

	retryDelay time.Duration
}

// NewTelegram 봇 토큰으로 텔레그램 API 클라이언트를 초기화합니다. 토큰이 올바르지 않으면 에러를 반환합니다.
func NewTelegram(id, botToken string, chatID int64, debug bool) (*Telegram, error) {
	applog.WithComponentAndFields(component, applog.Fields{
		"notifier_id": id,
		"bot_token":   applog.MaskToken(botToken),
		"chat_id":     chatID,
	}).Debug("텔레그램 봇 클라이언트 초기화")

	// 기본 http.Client는 타임아웃이 없습니다.
	client := &http.Client{Timeout: telegramHTTPClientTimeout}

	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.InvalidInput, "텔레그램 봇 API 클라이언트 초기화에 실패했습니다(notifier_id: %s). BotToken을 확인해 주세요", id)
	}
	bot.Debug = debug

	return newTelegramWithBot(id, chatID, bot), nil
}

func newTelegramWithBot(id string, chatID int64, bot botClient) *Telegram {
	return &Telegram{
		id:         id,
		chatID:     chatID,
		bot:        bot,
		limiter:    rate.NewLimiter(rate.Limit(telegramRateLimit), telegramRateBurst),
		retryDelay: telegramRetryDelay,
	}
}

func (t *Telegram) ID() string { return t.id }

// Notify HTML 형식의 메시지를 보냅니다. 길이 제한을 넘는 메시지는 줄 단위로 나누어 순서대로 보냅니다.
func (t *Telegram) Notify(ctx context.Context, message string) error {
	for _, chunk := range splitMessage(message, telegramMessageMaxLength) {
		if err := t.send(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (t *Telegram) send(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= telegramMaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := t.bot.Send(msg)
		if err == nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"notifier_id": t.id,
				"chat_id":     t.chatID,
				"attempt":     attempt,
			}).Debug("텔레그램 메시지 전송 성공")
			return nil
		}
		lastErr = err

		code, retryAfter := telegramErrorCode(err)
		applog.WithComponentAndFields(component, applog.Fields{
			"notifier_id": t.id,
			"attempt":     attempt,
			"error_code":  code,
			"error":       err.Error(),
		}).Warn("텔레그램 메시지 전송 실패")

		if !retryable(code) {
			break
		}

		wait := t.retryDelay
		if retryAfter > 0 {
			wait = time.Duration(retryAfter) * time.Second
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return apperrors.Wrapf(lastErr, apperrors.Unavailable, "텔레그램 메시지 전송에 실패했습니다(notifier_id: %s)", t.id)
}

func telegramErrorCode(err error) (code int, retryAfter int) {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.ResponseParameters.RetryAfter
	}
	var apiErrValue tgbotapi.Error
	if errors.As(err, &apiErrValue) {
		return apiErrValue.Code, apiErrValue.ResponseParameters.RetryAfter
	}
	return 0, 0
}

// retryable 429와 5xx, 네트워크 오류(code 0)만 다시 보냅니다.
func retryable(code int) bool {
	if code >= 400 && code < 500 {
		return code == http.StatusTooManyRequests
	}
	return true
}

// splitMessage 줄 단위로 limit 바이트 이하의 조각으로 나눕니다. 한 줄이 limit보다 길면 룬 경계에서 자릅니다.
func splitMessage(message string, limit int) []string {
	if len(message) <= limit {
		return []string{message}
	}

	var chunks []string
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
	}

	for line := range strings.SplitSeq(message, "\n") {
		need := len(line)
		if sb.Len() > 0 {
			need++
		}
		if sb.Len()+need <= limit {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(line)
			continue
		}

		flush()
		for len(line) > limit {
			var chunk string
			chunk, line = safeSplit(line, limit)
			chunks = append(chunks, chunk)
		}
		sb.WriteString(line)
	}
	flush()

	return chunks
}

func safeSplit(s string, limit int) (chunk, remainder string) {
	if len(s) <= limit {
		return s, ""
	}
	i := limit
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	if i == 0 {
		return s[:limit], s[limit:]
	}
	return s[:i], s[i:]
}
