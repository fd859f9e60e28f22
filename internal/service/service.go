// Package service 애플리케이션을 구성하는 장기 실행 서비스의 공통 인터페이스를 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service Start는 즉시 반환하며, serviceStopCtx가 취소되어 서비스가 완전히 종료되면 serviceStopWG.Done()을 호출합니다.
// 시작에 실패한 경우에도 Done()은 반드시 한 번 호출됩니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
