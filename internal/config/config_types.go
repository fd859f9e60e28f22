package config

import (
	"fmt"
	"slices"
	"time"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/darkkaiser/competitor-dashboard/pkg/cronx"
	"github.com/go-playground/validator/v10"
)

// AppConfig 애플리케이션의 모든 설정을 포함하는 최상위 구조체
type AppConfig struct {
	Debug      bool             `json:"debug"`
	Backend    BackendConfig    `json:"backend"`
	HTTPRetry  HTTPRetryConfig  `json:"http_retry"`
	Session    SessionConfig    `json:"session"`
	Dashboard  DashboardConfig  `json:"dashboard"`
	API        APIConfig        `json:"api"`
	Notifiers  NotifierConfig   `json:"notifiers"`
	PriceWatch PriceWatchConfig `json:"price_watch"`
}

func (c *AppConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c.Backend, "Backend"); err != nil {
		return err
	}
	if err := checkStruct(v, c.HTTPRetry, "HTTPRetry"); err != nil {
		return err
	}
	if err := checkStruct(v, c.Session, "Session"); err != nil {
		return err
	}
	if err := checkStruct(v, c.Dashboard, "Dashboard"); err != nil {
		return err
	}
	if err := checkStruct(v, c.API, "API"); err != nil {
		return err
	}
	if slices.Contains(c.API.CORS.AllowOrigins, "*") && len(c.API.CORS.AllowOrigins) > 1 {
		return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다. 모든 도메인을 허용하려면 와일드카드만 설정하세요")
	}

	notifierIDs, err := c.Notifiers.validate(v)
	if err != nil {
		return err
	}

	return c.PriceWatch.validate(v, notifierIDs)
}

// VerifyRecommendations 실행을 막지는 않지만 주의가 필요한 설정에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	if c.API.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.API.ListenPort))
	}
	if c.HTTPRetry.MaxRetries > 0 {
		warnings = append(warnings, fmt.Sprintf("HTTP 재시도(max_retries=%d)가 활성화되었습니다. 재시도는 GET 요청에만 적용되며 실패한 변경 요청은 재시도하지 않습니다", c.HTTPRetry.MaxRetries))
	}
	if slices.Contains(c.API.CORS.AllowOrigins, "*") && !c.Debug {
		warnings = append(warnings, "운영 모드에서 모든 CORS Origin(*)을 허용하고 있습니다")
	}

	return warnings
}

// BackendConfig 대시보드가 호출하는 백엔드(n8n 웹훅 프록시) 설정
type BackendConfig struct {
	BaseURL          string        `json:"base_url" validate:"required,base_url"`
	Timeout          time.Duration `json:"timeout" validate:"gt=0"`
	MaxResponseBytes int64         `json:"max_response_bytes" validate:"gt=0"`
	UserAgent        string        `json:"user_agent"`
}

// HTTPRetryConfig 멱등(GET) 요청 실패 시 재시도 정책. 기본값은 재시도 없음입니다.
type HTTPRetryConfig struct {
	MaxRetries int           `json:"max_retries" validate:"min=0,max=10"`
	RetryDelay time.Duration `json:"retry_delay" validate:"gt=0"`
}

const (
	SessionStoreFile  = "file"
	SessionStoreRedis = "redis"
)

// SessionConfig 인증 토큰 등 세션 상태를 보관하는 저장소 설정
type SessionConfig struct {
	Store string      `json:"store" validate:"oneof=file redis"`
	Dir   string      `json:"dir" validate:"required_if=Store file"`
	Redis RedisConfig `json:"redis"`
}

// RedisConfig 세션 저장소로 Redis를 사용할 때의 접속 정보
type RedisConfig struct {
	Addr      string `json:"addr" validate:"omitempty,hostname_port"`
	Password  string `json:"password"`
	DB        int    `json:"db" validate:"min=0"`
	KeyPrefix string `json:"key_prefix"`
}

// DashboardConfig 화면 상태 관리 관련 설정
type DashboardConfig struct {
	OverviewRefreshDelay time.Duration `json:"overview_refresh_delay" validate:"min=0"`
	AddQueueCapacity     int           `json:"add_queue_capacity" validate:"min=1"`
	CompetitorsPageSize  int           `json:"competitors_page_size" validate:"min=1,max=100"`
}

// APIConfig 대시보드 REST API 서버 설정
type APIConfig struct {
	ListenPort     int             `json:"listen_port" validate:"min=1,max=65535"`
	RequestTimeout time.Duration   `json:"request_timeout" validate:"gt=0"`
	CORS           CORSConfig      `json:"cors"`
	RateLimit      RateLimitConfig `json:"rate_limit"`
}

// CORSConfig 허용할 교차 출처 목록. 와일드카드(*)는 단독으로만 사용할 수 있습니다.
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"min=1,dive,cors_origin"`
}

// RateLimitConfig IP별 요청 속도 제한
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second" validate:"gt=0"`
	Burst             int     `json:"burst" validate:"min=1"`
}

// NotifierConfig 가격 알림을 보낼 텔레그램 채널 목록
type NotifierConfig struct {
	DefaultNotifierID string           `json:"default_notifier_id"`
	Telegrams         []TelegramConfig `json:"telegrams" validate:"unique=ID"`
}

func (c *NotifierConfig) validate(v *validator.Validate) ([]string, error) {
	if err := checkStruct(v, c, "Notifiers"); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(c.Telegrams))
	for _, tg := range c.Telegrams {
		if err := checkStruct(v, tg, fmt.Sprintf("Telegram Notifier['%s']", tg.ID)); err != nil {
			return nil, err
		}
		ids = append(ids, tg.ID)
	}

	if c.DefaultNotifierID != "" && !slices.Contains(ids, c.DefaultNotifierID) {
		return nil, apperrors.Newf(apperrors.NotFound, "기본 NotifierID('%s')가 정의된 Notifier 목록에 존재하지 않습니다", c.DefaultNotifierID)
	}

	return ids, nil
}

// TelegramConfig 텔레그램 봇 토큰과 채팅 ID
type TelegramConfig struct {
	ID       string `json:"id" validate:"required"`
	BotToken string `json:"bot_token" validate:"required,telegram_bot_token"`
	ChatID   int64  `json:"chat_id" validate:"required"`
}

// PriceWatchConfig 주기적으로 내 상품과 경쟁 상품의 가격을 비교하여 알림을 보내는 작업 설정
type PriceWatchConfig struct {
	Enabled    bool     `json:"enabled"`
	TimeSpec   string   `json:"time_spec" validate:"required_if=Enabled true"`
	ProductIDs []string `json:"product_ids" validate:"required_if=Enabled true,dive,numeric"`
	NotifierID string   `json:"notifier_id"`

	// NotifyOnlyCheaper true이면 경쟁 상품 최저가가 내 가격보다 낮을 때만 알립니다.
	NotifyOnlyCheaper bool `json:"notify_only_cheaper"`
}

func (c *PriceWatchConfig) validate(v *validator.Validate, notifierIDs []string) error {
	if !c.Enabled {
		return nil
	}

	if err := checkStruct(v, c, "PriceWatch"); err != nil {
		return err
	}
	if err := cronx.Validate(c.TimeSpec); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, "가격 감시 스케줄(time_spec) 설정이 유효하지 않습니다")
	}
	if !slices.Contains(notifierIDs, c.NotifierID) {
		return apperrors.Newf(apperrors.NotFound, "가격 감시 작업에서 참조하는 NotifierID('%s')가 정의되지 않았습니다", c.NotifierID)
	}

	return nil
}
