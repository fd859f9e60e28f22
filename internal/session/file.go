package session

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/darkkaiser/competitor-dashboard/pkg/concurrency"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/iancoleman/strcase"
)

const (
	defaultDataDirectory = "data"

	tempFilePattern = "session-*.tmp"
)

// ErrPathTraversalDetected 키로부터 만든 경로가 저장소 디렉토리를 벗어날 때 반환됩니다.
var ErrPathTraversalDetected = apperrors.New(apperrors.Internal, "보안 정책 위반: 허용되지 않은 경로 접근 시도로 인해 요청이 차단되었습니다")

var filenameReplacer = strings.NewReplacer(
	"..", "--",
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "-",
	"\"", "-",
	"<", "-",
	">", "-",
	"|", "-",
)

type fileRecord struct {
	Value     string     `json:"value"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// fileStore 키마다 하나의 JSON 파일을 사용하는 저장소입니다.
// 쓰기는 임시 파일에 기록한 뒤 rename하는 방식으로 원자적으로 수행합니다.
type fileStore struct {
	baseDir string
	locks   *concurrency.KeyedMutex[string]
}

var _ Store = (*fileStore)(nil)

func NewFileStore(dir string) (Store, error) {
	if dir == "" {
		dir = defaultDataDirectory
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "세션 저장소 초기화 실패: 절대 경로 변환 불가")
	}
	if err := os.MkdirAll(absDir, 0700); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Internal, "세션 저장소 초기화 실패: 디렉토리 접근 불가 (%s)", absDir)
	}

	s := &fileStore{
		baseDir: absDir,
		locks:   concurrency.NewKeyedMutex[string](),
	}
	s.cleanupStaleTempFiles()

	return s, nil
}

func (s *fileStore) Get(_ context.Context, key string) (string, error) {
	path, err := s.resolveSafePath(key)
	if err != nil {
		return "", err
	}

	var rec fileRecord
	err = s.locks.WithLock(strings.ToLower(path), func() error {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return ErrNotFound
			}
			return apperrors.Wrap(err, apperrors.Internal, "세션 값 조회 실패: 파일 읽기 중 오류가 발생했습니다")
		}
		if err := json.Unmarshal(data, &rec); err != nil {
			return apperrors.Wrap(err, apperrors.Internal, "세션 값 조회 실패: 저장된 데이터를 해석할 수 없습니다")
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if rec.ExpiresAt != nil && time.Now().After(*rec.ExpiresAt) {
		_ = s.Delete(context.Background(), key)
		return "", ErrNotFound
	}
	return rec.Value, nil
}

func (s *fileStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	path, err := s.resolveSafePath(key)
	if err != nil {
		return err
	}

	rec := fileRecord{Value: value}
	if ttl > 0 {
		expiresAt := time.Now().Add(ttl)
		rec.ExpiresAt = &expiresAt
	}

	data, err := json.MarshalIndent(rec, "", "\t")
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "세션 값 저장 실패: 직렬화 중 오류가 발생했습니다")
	}

	return s.locks.WithLock(strings.ToLower(path), func() error {
		return s.writeAtomic(path, data)
	})
}

func (s *fileStore) Delete(_ context.Context, key string) error {
	path, err := s.resolveSafePath(key)
	if err != nil {
		return err
	}

	return s.locks.WithLock(strings.ToLower(path), func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return apperrors.Wrap(err, apperrors.Internal, "세션 값 삭제 실패: 파일 제거 중 오류가 발생했습니다")
		}
		return nil
	})
}

func (s *fileStore) Close() error { return nil }

// filename 키를 파일 이름으로 사용할 수 있도록 정리하고, 대소문자만 다른 키가 충돌하지 않도록 해시를 덧붙입니다.
func filename(key string) string {
	name := filenameReplacer.Replace(strcase.ToKebab(key))
	if len(name) > 50 {
		name = name[:50]
	}

	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(key))

	return fmt.Sprintf("session-%s-%016x.json", name, hasher.Sum64())
}

func (s *fileStore) resolveSafePath(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", apperrors.New(apperrors.InvalidInput, "세션 키가 비어 있습니다")
	}

	cleanPath := filepath.Clean(filepath.Join(s.baseDir, filename(key)))

	rel, err := filepath.Rel(s.baseDir, cleanPath)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.Internal, "보안 검증 실패: 파일 경로를 해석할 수 없습니다")
	}
	if strings.HasPrefix(rel, "..") {
		applog.WithComponentAndFields(component, applog.Fields{
			"key":      key,
			"base_dir": s.baseDir,
			"path":     cleanPath,
		}).Error("파일 경로 생성 차단: 경로 이탈 시도 감지")

		return "", ErrPathTraversalDetected
	}

	return cleanPath, nil
}

func (s *fileStore) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "세션 값 저장 실패: 임시 파일 생성 중 오류가 발생했습니다")
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)
	defer tmpFile.Close()

	if err := tmpFile.Chmod(0600); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "세션 값 저장 실패: 파일 권한 설정 중 오류가 발생했습니다")
	}
	if _, err := tmpFile.Write(data); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "세션 값 저장 실패: 파일 쓰기 중 오류가 발생했습니다")
	}
	if err := tmpFile.Sync(); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "세션 값 저장 실패: 디스크 동기화 중 오류가 발생했습니다")
	}
	if err := tmpFile.Close(); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "세션 값 저장 실패: 파일 닫기 중 오류가 발생했습니다")
	}

	if err := renameWithRetry(tmpPath, path); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "세션 값 저장 실패: 파일 이름 변경 중 오류가 발생했습니다")
	}

	if dirFile, err := os.Open(dir); err == nil {
		_ = dirFile.Sync()
		dirFile.Close()
	}

	return nil
}

// renameWithRetry Windows에서 다른 프로세스가 파일을 잠시 열고 있는 경우를 위해 rename을 몇 차례 재시도합니다.
func renameWithRetry(oldPath, newPath string) error {
	const maxRetries = 5
	const retryDelay = 10 * time.Millisecond

	var lastErr error
	for range maxRetries {
		if lastErr = os.Rename(oldPath, newPath); lastErr == nil {
			return nil
		}
		time.Sleep(retryDelay)
	}
	return lastErr
}

// cleanupStaleTempFiles 이전 실행에서 남은 오래된 임시 파일을 정리합니다.
func (s *fileStore) cleanupStaleTempFiles() {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return
	}

	threshold := time.Now().Add(-1 * time.Hour)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matched, _ := filepath.Match(tempFilePattern, entry.Name()); !matched {
			continue
		}
		if info, err := entry.Info(); err != nil || info.ModTime().After(threshold) {
			continue
		}

		fullPath := filepath.Join(s.baseDir, entry.Name())
		if err := os.Remove(fullPath); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"file":  fullPath,
				"error": err,
			}).Warn("임시 파일 삭제 실패: 파일 제거 오류")
		}
	}
}
