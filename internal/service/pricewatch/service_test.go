package pricewatch

import (
	"context"
	"sync"
	"testing"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	"github.com/darkkaiser/competitor-dashboard/internal/config"
	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Product(ctx context.Context, id string) (backend.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(backend.Product), args.Error(1)
}

func (m *mockSource) Overview(ctx context.Context, productID string, light bool) (backend.CompetitorsOverview, error) {
	args := m.Called(ctx, productID, light)
	return args.Get(0).(backend.CompetitorsOverview), args.Error(1)
}

type recordingSender struct {
	mu       sync.Mutex
	messages map[string][]string
}

func (s *recordingSender) Notify(_ context.Context, notifierID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.messages == nil {
		s.messages = make(map[string][]string)
	}
	s.messages[notifierID] = append(s.messages[notifierID], message)
	return nil
}

type staticAuth bool

func (a staticAuth) IsAuthenticated() bool { return bool(a) }

func newConfig(ids ...string) config.PriceWatchConfig {
	return config.PriceWatchConfig{
		Enabled:    true,
		TimeSpec:   "0 0 * * * *",
		ProductIDs: ids,
		NotifierID: "tg",
	}
}

func TestCheck(t *testing.T) {
	src := &mockSource{}
	src.On("Product", mock.Anything, "1").Return(backend.Product{ID: "1", Title: "لیوان <دسته‌دار>", Price: 1_250_000}, nil)
	src.On("Overview", mock.Anything, "1", false).Return(backend.CompetitorsOverview{CompetitorsCount: 3, MinPrice: 1_000_000, AveragePrice: 1_250_000}, nil)
	src.On("Product", mock.Anything, "2").Return(backend.Product{}, apperrors.New(apperrors.Unavailable, "timeout"))
	src.On("Product", mock.Anything, "3").Return(backend.Product{ID: "3", Price: 100}, nil)
	src.On("Overview", mock.Anything, "3", false).Return(backend.CompetitorsOverview{}, nil)

	sender := &recordingSender{}
	s := NewService(newConfig("1", "2", "3"), src, sender, staticAuth(true))

	s.Check(context.Background())

	require.Len(t, sender.messages["tg"], 1, "경쟁 상품이 없는 상품과 실패한 상품은 알리지 않습니다")
	msg := sender.messages["tg"][0]
	assert.Contains(t, msg, "<b>لیوان &lt;دسته‌دار&gt;</b>")
	assert.Contains(t, msg, "1,250,000")
	assert.Contains(t, msg, "کمترین قیمت: 1,000,000 تومان (-25% ارزان‌تر)")
	assert.Contains(t, msg, "میانگین قیمت: 1,250,000 تومان (هم‌قیمت)")
}

func TestCheck_NotifyOnlyCheaper(t *testing.T) {
	src := &mockSource{}
	src.On("Product", mock.Anything, "1").Return(backend.Product{ID: "1", Price: 900}, nil)
	src.On("Overview", mock.Anything, "1", false).Return(backend.CompetitorsOverview{CompetitorsCount: 1, MinPrice: 1000, AveragePrice: 1000}, nil)

	cfg := newConfig("1")
	cfg.NotifyOnlyCheaper = true
	sender := &recordingSender{}

	NewService(cfg, src, sender, staticAuth(true)).Check(context.Background())

	assert.Empty(t, sender.messages)
}

func TestCheck_StopsOnUnauthorized(t *testing.T) {
	src := &mockSource{}
	src.On("Product", mock.Anything, "1").Return(backend.Product{}, apperrors.New(apperrors.Unauthorized, "401"))

	sender := &recordingSender{}
	NewService(newConfig("1", "2"), src, sender, staticAuth(true)).Check(context.Background())

	src.AssertNumberOfCalls(t, "Product", 1)
	assert.Empty(t, sender.messages)
}

func TestCheck_NotAuthenticated(t *testing.T) {
	src := &mockSource{}
	NewService(newConfig("1"), src, &recordingSender{}, staticAuth(false)).Check(context.Background())

	src.AssertNotCalled(t, "Product", mock.Anything, mock.Anything)
}

func TestService_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewService(newConfig("1"), &mockSource{}, &recordingSender{}, staticAuth(true))

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	cancel()
	wg.Wait()

	assert.False(t, s.running)
}

func TestService_Start_Disabled(t *testing.T) {
	s := NewService(config.PriceWatchConfig{}, &mockSource{}, &recordingSender{}, nil)

	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, s.Start(context.Background(), wg))
	wg.Wait()

	assert.Nil(t, s.cron)
}

func TestService_Start_InvalidSpec(t *testing.T) {
	cfg := newConfig("1")
	cfg.TimeSpec = "not a cron"
	s := NewService(cfg, &mockSource{}, &recordingSender{}, nil)

	wg := &sync.WaitGroup{}
	wg.Add(1)
	assert.Error(t, s.Start(context.Background(), wg))
	wg.Wait()
}
