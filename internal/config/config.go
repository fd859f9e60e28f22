package config

import (
	"os"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션 식별자입니다. 로그 파일명과 설정 파일명에 사용됩니다.
	AppName string = "competitor-dashboard"

	// DefaultFilename 실행 인자로 경로가 주어지지 않았을 때 읽는 설정 파일명입니다.
	DefaultFilename = AppName + ".json"

	// envPrefix 설정을 덮어쓰는 환경 변수의 접두사입니다.
	// 예: DASHBOARD_BACKEND__BASE_URL -> backend.base_url
	envPrefix = "DASHBOARD_"
)

const (
	// DefaultMaxRetries 재시도 없음. 실패한 요청은 사용자가 다시 시도할 때까지 종결된 것으로 취급합니다.
	DefaultMaxRetries = 0

	DefaultRetryDelay = 1 * time.Second

	DefaultBackendTimeout = 30 * time.Second

	// DefaultMaxResponseBytes 백엔드 응답 본문의 최대 크기
	DefaultMaxResponseBytes = 10 * 1024 * 1024

	// DefaultOverviewRefreshDelay 경쟁 상품 추가 후 요약 정보를 다시 불러오기 전 대기 시간
	DefaultOverviewRefreshDelay = 1 * time.Second

	// DefaultAddQueueCapacity 경쟁 상품 추가 요청 대기열 크기
	DefaultAddQueueCapacity = 64

	// DefaultCompetitorsPageSize 경쟁 상품 목록 한 페이지에 포함되는 상품 수
	DefaultCompetitorsPageSize = 12

	DefaultListenPort = 8080
)

// newDefaultConfig 설정 파일과 환경 변수가 덮어쓰기 전의 기본값을 반환합니다.
func newDefaultConfig() AppConfig {
	return AppConfig{
		Debug: true,
		Backend: BackendConfig{
			Timeout:          DefaultBackendTimeout,
			MaxResponseBytes: DefaultMaxResponseBytes,
		},
		HTTPRetry: HTTPRetryConfig{
			MaxRetries: DefaultMaxRetries,
			RetryDelay: DefaultRetryDelay,
		},
		Session: SessionConfig{
			Store: SessionStoreFile,
			Dir:   "data",
			Redis: RedisConfig{KeyPrefix: AppName + ":"},
		},
		Dashboard: DashboardConfig{
			OverviewRefreshDelay: DefaultOverviewRefreshDelay,
			AddQueueCapacity:     DefaultAddQueueCapacity,
			CompetitorsPageSize:  DefaultCompetitorsPageSize,
		},
		API: APIConfig{
			ListenPort:     DefaultListenPort,
			RequestTimeout: 60 * time.Second,
			CORS:           CORSConfig{AllowOrigins: []string{"*"}},
			RateLimit:      RateLimitConfig{RequestsPerSecond: 20, Burst: 40},
		},
	}
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 기본값, 설정 파일, 환경 변수 순으로 병합하여 AppConfig를 생성하고 검증합니다.
// 뒤에 로드된 값이 앞의 값을 덮어씁니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(newDefaultConfig(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrapf(err, apperrors.System, "설정 파일을 찾을 수 없습니다: '%s'", filename)
		}
		return nil, apperrors.Wrapf(err, apperrors.InvalidInput, "설정 파일 로드 중 오류가 발생했습니다: '%s'", filename)
	}

	if err := k.Load(env.Provider(envPrefix, ".", normalizeEnvKey), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	}

	var appConfig AppConfig
	unmarshalConf.DecoderConfig.Result = &appConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	if err := appConfig.validate(newValidator()); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.InvalidInput, "설정 파일('%s')의 유효성 검증에 실패했습니다", filename)
	}

	return &appConfig, nil
}

// normalizeEnvKey 환경 변수 이름을 koanf 키로 변환합니다. 이중 언더스코어(__)는 계층 구분자입니다.
func normalizeEnvKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}
