// Package maputil map[string]any 형태의 느슨한 데이터를 구조체로 디코딩하는 기능을 제공합니다.
package maputil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
)

// Decode input을 새 T 값으로 디코딩합니다.
//
// 기본 설정은 json 태그 사용, 약한 타입 변환 허용("100" → 100), 알 수 없는 필드 무시입니다.
func Decode[T any](input any, opts ...Option) (*T, error) {
	output := new(T)
	if err := DecodeTo(input, output, opts...); err != nil {
		return nil, err
	}
	return output, nil
}

// DecodeTo input을 output에 디코딩합니다. 입력에 없는 필드는 기존 값을 유지합니다.
func DecodeTo[T any](input any, output *T, opts ...Option) error {
	if output == nil {
		return errors.New("디코딩 결과를 저장할 output 포인터가 nil입니다")
	}

	cfg := &decodingConfig{
		tagName:          "json",
		weaklyTypedInput: true,
		squash:           true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		TagName:          cfg.tagName,
		WeaklyTypedInput: cfg.weaklyTypedInput,
		ErrorUnused:      cfg.errorUnused,
		Squash:           cfg.squash,
		MatchName:        cfg.matchName,
		DecodeHook:       cfg.buildDecodeHook(),
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("입력 데이터를 %T(으)로 디코딩하는 데 실패했습니다: %w", output, err)
	}
	return nil
}

type decodingConfig struct {
	tagName          string
	weaklyTypedInput bool
	errorUnused      bool
	squash           bool

	matchName  func(key, field string) bool
	extraHooks []mapstructure.DecodeHookFunc
}

func (c *decodingConfig) buildDecodeHook() mapstructure.DecodeHookFunc {
	hooks := make([]mapstructure.DecodeHookFunc, 0, len(c.extraHooks)+3)
	hooks = append(hooks, c.extraHooks...)
	hooks = append(hooks,
		mapstructure.TextUnmarshallerHookFunc(),
		stringToDurationHookFunc(),
		stringToSliceHookFunc(),
	)
	return mapstructure.ComposeDecodeHookFunc(hooks...)
}

type Option func(*decodingConfig)

func WithTagName(tagName string) Option {
	return func(c *decodingConfig) {
		c.tagName = tagName
	}
}

func WithWeaklyTypedInput(enable bool) Option {
	return func(c *decodingConfig) {
		c.weaklyTypedInput = enable
	}
}

func WithErrorUnused(enable bool) Option {
	return func(c *decodingConfig) {
		c.errorUnused = enable
	}
}

func WithDecodeHook(hooks ...mapstructure.DecodeHookFunc) Option {
	return func(c *decodingConfig) {
		c.extraHooks = append(c.extraHooks, hooks...)
	}
}

func WithMatchName(matchFunc func(mapKey, fieldName string) bool) Option {
	return func(c *decodingConfig) {
		c.matchName = matchFunc
	}
}

// WithCaseTolerantKeys snake_case와 camelCase 키를 같은 필드로 취급합니다.
// "min_price", "minPrice", "MinPrice"는 모두 태그 이름 min_price(또는 minPrice)와 일치합니다.
func WithCaseTolerantKeys() Option {
	return WithMatchName(MatchAnyCase)
}

// MatchAnyCase 두 이름을 snake_case로 정규화하여 비교합니다.
func MatchAnyCase(mapKey, fieldName string) bool {
	if strings.EqualFold(mapKey, fieldName) {
		return true
	}
	return strcase.ToSnake(mapKey) == strcase.ToSnake(fieldName)
}
