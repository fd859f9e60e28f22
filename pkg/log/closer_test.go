package log

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockCloser struct {
	closed int
	synced int
	err    error
}

func (m *mockCloser) Close() error {
	m.closed++
	return m.err
}

func (m *mockCloser) Sync() error {
	m.synced++
	return nil
}

func TestCloser_Close(t *testing.T) {
	t.Run("훅을 먼저 닫고 모든 Writer를 닫음", func(t *testing.T) {
		h, _, _, _, _ := newTestHook()
		a, b := &mockCloser{}, &mockCloser{}
		c := &closer{closers: []io.Closer{a, b}, hook: h}

		assert.NoError(t, c.Close())
		assert.True(t, h.closed)
		assert.Equal(t, 1, a.closed)
		assert.Equal(t, 1, a.synced)
		assert.Equal(t, 1, b.closed)
	})

	t.Run("여러 번 호출해도 안전", func(t *testing.T) {
		a := &mockCloser{}
		c := &closer{closers: []io.Closer{a}}

		assert.NoError(t, c.Close())
		assert.NoError(t, c.Close())
		assert.Equal(t, 1, a.closed)
	})

	t.Run("에러를 모으면서 나머지도 닫음", func(t *testing.T) {
		e1, e2 := errors.New("e1"), errors.New("e2")
		a, b, ok := &mockCloser{err: e1}, &mockCloser{err: e2}, &mockCloser{}
		c := &closer{closers: []io.Closer{a, nil, b, ok}}

		err := c.Close()

		assert.ErrorIs(t, err, e1)
		assert.ErrorIs(t, err, e2)
		assert.Equal(t, 1, ok.closed)
	})
}
