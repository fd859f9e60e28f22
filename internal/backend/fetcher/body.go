package fetcher

import (
	"io"
	"sync"
)

const (
	// maxDrainBytes 커넥션 재사용을 위해 Body를 비울 때 읽을 최대 바이트 수
	maxDrainBytes = 64 * 1024

	// maxBodySnippetBytes 에러에 포함할 응답 본문의 최대 크기
	maxBodySnippetBytes = 4 * 1024
)

var drainBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 32*1024)
		return &b
	},
}

// drainAndCloseBody Keep-Alive 커넥션이 풀로 반환되도록 응답 Body를 일정량 읽어서 버린 후 닫습니다.
// maxDrainBytes를 초과하는 응답의 커넥션은 재사용되지 않습니다.
func drainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	defer body.Close()

	bufPtr := drainBufPool.Get().(*[]byte)
	defer drainBufPool.Put(bufPtr)

	_, _ = io.CopyBuffer(io.Discard, io.LimitReader(body, maxDrainBytes), *bufPtr)
}

// readBodySnippet 응답 본문의 앞부분을 읽습니다. 읽기 실패는 무시합니다.
func readBodySnippet(body io.Reader) []byte {
	if body == nil {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(body, maxBodySnippetBytes))
	return b
}
