// Package notify 가격 알림과 서버 장애 알림을 외부 메신저로 보내는 Notifier를 제공합니다.
package notify

import (
	"context"
	"sort"

	"github.com/darkkaiser/competitor-dashboard/internal/config"
	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
)

const component = "notify"

// Notifier 메시지 하나를 전송합니다.
type Notifier interface {
	ID() string
	Notify(ctx context.Context, message string) error
}

// Registry ID로 Notifier를 찾습니다. 설정된 Notifier가 없으면 모든 전송은 아무 일도 하지 않습니다.
type Registry struct {
	notifiers map[string]Notifier
	defaultID string
}

func NewRegistry(defaultID string, notifiers ...Notifier) *Registry {
	r := &Registry{notifiers: make(map[string]Notifier, len(notifiers)), defaultID: defaultID}
	for _, n := range notifiers {
		r.notifiers[n.ID()] = n
	}
	return r
}

// NewRegistryFromConfig 설정의 텔레그램 채널마다 Notifier를 생성합니다.
func NewRegistryFromConfig(cfg *config.AppConfig) (*Registry, error) {
	notifiers := make([]Notifier, 0, len(cfg.Notifiers.Telegrams))
	for _, tg := range cfg.Notifiers.Telegrams {
		n, err := NewTelegram(tg.ID, tg.BotToken, tg.ChatID, cfg.Debug)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, n)
	}
	return NewRegistry(cfg.Notifiers.DefaultNotifierID, notifiers...), nil
}

// IDs 등록된 Notifier ID 목록(정렬됨)
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.notifiers))
	for id := range r.notifiers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Notify id에 해당하는 Notifier로 전송합니다. id가 비어 있으면 기본 Notifier를 사용합니다.
func (r *Registry) Notify(ctx context.Context, id, message string) error {
	if id == "" {
		id = r.defaultID
	}
	if id == "" && len(r.notifiers) == 0 {
		return nil
	}

	n, ok := r.notifiers[id]
	if !ok {
		return apperrors.Newf(apperrors.NotFound, "등록되지 않은 Notifier입니다: '%s'", id)
	}
	return n.Notify(ctx, message)
}

// NotifyDefault 기본 Notifier로 전송합니다. 기본 Notifier가 없으면 아무 일도 하지 않습니다.
func (r *Registry) NotifyDefault(ctx context.Context, message string) error {
	if r == nil || r.defaultID == "" {
		return nil
	}
	return r.Notify(ctx, r.defaultID, message)
}
