package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	"github.com/darkkaiser/competitor-dashboard/internal/backend/fetcher"
	"github.com/darkkaiser/competitor-dashboard/internal/config"
	"github.com/darkkaiser/competitor-dashboard/internal/dashboard"
	"github.com/darkkaiser/competitor-dashboard/internal/notify"
	"github.com/darkkaiser/competitor-dashboard/internal/pkg/version"
	"github.com/darkkaiser/competitor-dashboard/internal/service"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/constants"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/handler/system"
	"github.com/darkkaiser/competitor-dashboard/internal/service/pricewatch"
	"github.com/darkkaiser/competitor-dashboard/internal/session"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/joho/godotenv"
)

const banner = `
   ___                       _    _  _                ___            _     _                              _
  / __| ___  _ __   _ __  ___| |_ (_)| |_  ___  _ _  |   \  __ _  ___| |_  | |__  ___  __ _  _ _  __| |
 | (__ / _ \| '  \ | '_ \/ -_)|  _|| ||  _|/ _ \| '_| | |) |/ _' |(_-<| ' \ | '_ \/ _ \/ _' || '_|/ _' |
  \___|\___/|_|_|_|| .__/\___| \__||_| \__|\___/|_|   |___/ \__,_|/__/|_||_||_.__/\___/\__,_||_|  \__,_|
                   |_|                                                                          %s
--------------------------------------------------------------------------------------------------------
`

func main() {
	// .env는 선택 사항입니다. DASHBOARD_ 접두사 환경 변수로 설정 파일의 값을 덮어쓸 수 있습니다.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "[WARN] .env 파일을 읽지 못했습니다: %v\n", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	logOpts := applog.NewProductionOptions(config.AppName)
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	}
	logCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	applog.SetDebugMode(appConfig.Debug)

	buildInfo := version.Get()
	fmt.Printf(banner, buildInfo.Version)

	applog.WithComponentAndFields("main", buildInfo.Fields()).Info("서버 초기화 시작")
	for _, w := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(w)
	}

	if err := run(appConfig, buildInfo); err != nil {
		applog.WithComponentAndFields("main", applog.Fields{
			"error": err.Error(),
		}).Error("서버 실행 실패")

		logCloser.Close()
		os.Exit(1)
	}
}

func run(appConfig *config.AppConfig, buildInfo version.Info) error {
	initCtx, initCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer initCancel()

	store, err := session.NewStoreFromConfig(initCtx, appConfig.Session)
	if err != nil {
		return err
	}
	sess := session.New(store, nil)
	defer sess.Close()

	if err := sess.Restore(initCtx); err != nil {
		return err
	}

	client, err := backend.NewFromConfig(appConfig.Backend, appConfig.HTTPRetry, fetcher.TokenSourceFunc(sess.Token))
	if err != nil {
		return err
	}
	defer client.Close()

	notifiers, err := notify.NewRegistryFromConfig(appConfig)
	if err != nil {
		return err
	}

	app := dashboard.NewApp(client, sess, dashboard.OptionsFromConfig(appConfig.Dashboard))
	defer app.Close()

	deps := map[string]system.HealthChecker{
		constants.DependencySessionStore: sess,
	}

	services := []service.Service{
		api.NewService(appConfig, app, deps, notifiers, buildInfo),
		pricewatch.NewService(appConfig.PriceWatch, client, notifiers, sess),
	}

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serviceStopWG := &sync.WaitGroup{}

	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			cancel()
			serviceStopWG.Wait()
			return err
		}
	}

	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC

	applog.WithComponent("main").Info("종료 신호 수신")
	cancel()
	serviceStopWG.Wait()

	return nil
}
