package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

var _ ledger.Locker = (*Local)(nil)

// Local mapa de bloqueos por llave dentro del proceso. Sirve para una sola instancia.
type Local struct {
	mu    sync.Mutex
	locks map[string]*keyLock
	wait  time.Duration
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

// NewLocal construye el bloqueador en memoria. wait limita la espera total por Acquire
// (0 = sólo el contexto la limita).
func NewLocal(wait time.Duration) *Local {
	return &Local{locks: make(map[string]*keyLock), wait: wait}
}

// Acquire bloquea todas las llaves en orden; espera hasta obtenerlas o hasta que ctx termine.
func (l *Local) Acquire(ctx context.Context, keys ...string) (func(), error) {
	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}
	keys = normalize(keys)
	held := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := l.lock(ctx, k); err != nil {
			l.unlockAll(held)
			return nil, err
		}
		held = append(held, k)
	}
	var once sync.Once
	return func() { once.Do(func() { l.unlockAll(held) }) }, nil
}

func (l *Local) lock(ctx context.Context, key string) error {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.release(key, false)
		return fmt.Errorf("%w: %s: %v", domain.ErrLockNotObtained, key, ctx.Err())
	}
}

func (l *Local) unlockAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.release(keys[i], true)
	}
}

func (l *Local) release(key string, held bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl := l.locks[key]
	if held {
		<-kl.ch
	}
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}
