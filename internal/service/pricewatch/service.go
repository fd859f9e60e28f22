// Package pricewatch 정해진 주기마다 감시 대상 상품의 경쟁 가격을 확인하여 알림을 보냅니다.
package pricewatch

import (
	"context"
	"sync"
	"time"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	"github.com/darkkaiser/competitor-dashboard/internal/config"
	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/darkkaiser/competitor-dashboard/internal/pricing"
	"github.com/darkkaiser/competitor-dashboard/pkg/cronx"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/robfig/cron/v3"
)

const component = "pricewatch"

// checkTimeout 한 번의 가격 확인(감시 대상 전체)에 허용되는 최대 시간
const checkTimeout = 2 * time.Minute

// Source 가격 정보를 조회할 백엔드. *backend.Client가 구현합니다.
type Source interface {
	Product(ctx context.Context, id string) (backend.Product, error)
	Overview(ctx context.Context, productID string, light bool) (backend.CompetitorsOverview, error)
}

// Sender 알림 전송. *notify.Registry가 구현합니다.
type Sender interface {
	Notify(ctx context.Context, notifierID, message string) error
}

// Authenticator 로그인 여부. 로그인하지 않은 상태에서는 확인을 건너뜁니다.
type Authenticator interface {
	IsAuthenticated() bool
}

// Service 가격 감시 작업의 생명주기를 관리합니다.
type Service struct {
	cfg config.PriceWatchConfig

	source Source
	sender Sender
	auth   Authenticator

	cron *cron.Cron

	running   bool
	runningMu sync.Mutex
}

func NewService(cfg config.PriceWatchConfig, source Source, sender Sender, auth Authenticator) *Service {
	return &Service{
		cfg:    cfg,
		source: source,
		sender: sender,
		auth:   auth,
	}
}

// Start 스케줄러를 시작합니다. 비활성화된 경우 아무 작업도 하지 않고 serviceStopWG.Done()을 호출합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.cfg.Enabled {
		serviceStopWG.Done()
		applog.WithComponent(component).Info("가격 감시가 비활성화되어 있습니다")
		return nil
	}
	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("가격 감시 서비스가 이미 실행 중입니다")
		return nil
	}

	cronLogger := cron.VerbosePrintfLogger(applog.StandardLogger())
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cronLogger),
		cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		),
	)

	if _, err := s.cron.AddFunc(s.cfg.TimeSpec, func() {
		// 종료 시 cron.Stop()이 실행 중인 확인 작업을 기다리므로 서비스 컨텍스트와 분리합니다.
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()

		s.Check(ctx)
	}); err != nil {
		serviceStopWG.Done()
		return apperrors.Wrapf(err, apperrors.InvalidInput, "가격 감시 스케줄 등록 실패(time_spec: %s)", s.cfg.TimeSpec)
	}

	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"time_spec":   s.cfg.TimeSpec,
		"products":    len(s.cfg.ProductIDs),
		"notifier_id": s.cfg.NotifierID,
	}).Info("가격 감시 서비스 시작됨")

	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 스케줄러를 중지하고 실행 중인 확인 작업이 끝날 때까지 기다립니다.
func (s *Service) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("가격 감시 서비스 중지됨")
}

// Check 감시 대상 상품을 차례로 확인하고 알림이 필요한 상품마다 메시지를 보냅니다.
//
// 실패한 상품은 건너뛰며 다시 시도하지 않습니다. 401이면 이후 상품도 모두 실패하므로 즉시 중단합니다.
func (s *Service) Check(ctx context.Context) {
	if s.auth != nil && !s.auth.IsAuthenticated() {
		applog.WithComponent(component).Warn("로그인되어 있지 않아 가격 확인을 건너뜁니다")
		return
	}

	for _, id := range s.cfg.ProductIDs {
		if ctx.Err() != nil {
			return
		}

		report, err := s.inspect(ctx, id)
		if err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"product_id": id,
				"error":      err.Error(),
			}).Warn("가격 확인 실패")

			if apperrors.Is(err, apperrors.Unauthorized) {
				return
			}
			continue
		}

		if !s.shouldNotify(report) {
			continue
		}

		if err := s.sender.Notify(ctx, s.cfg.NotifierID, report.Message()); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"product_id":  id,
				"notifier_id": s.cfg.NotifierID,
				"error":       err.Error(),
			}).Error("가격 알림 전송 실패")
		}
	}
}

func (s *Service) inspect(ctx context.Context, id string) (Report, error) {
	product, err := s.source.Product(ctx, id)
	if err != nil {
		return Report{}, err
	}
	overview, err := s.source.Overview(ctx, id, false)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Product:  product,
		Overview: overview,
		Badges:   pricing.CompareOverview(product.Price, overview.MinPrice, overview.AveragePrice),
	}, nil
}

func (s *Service) shouldNotify(r Report) bool {
	if r.Overview.CompetitorsCount == 0 || r.Badges.Lowest == nil {
		return false
	}
	if s.cfg.NotifyOnlyCheaper {
		return r.Badges.Lowest.Tone == pricing.ToneCheaper
	}
	return true
}
