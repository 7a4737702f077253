// Package cache implementa memoización con expiración para lecturas de listados.
//
// Política de consistencia: las escrituras en los datos subyacentes NO invalidan entradas.
// Tras escribir filas nuevas, un lector puede seguir viendo la página cacheada hasta que
// venza el TTL. La ventana de obsolescencia está acotada solo por el TTL.
package cache

import (
	"context"
	"sync"
	"time"
)

// Store es el almacén de entradas con TTL. Get no devuelve entradas vencidas.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Memory es un Store en memoria seguro para uso concurrente.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// Option configura un Memory.
type Option func(*Memory)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

// NewMemory crea un almacén vacío.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{entries: make(map[string]entry), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get devuelve el valor si existe y no ha vencido. Una entrada vencida se elimina.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		// otro llamador pudo haber repoblado la clave entre ambos locks
		if cur, ok := m.entries[key]; ok && m.now().After(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set guarda el valor con vencimiento now+ttl. Si dos llamadores llenan la misma clave,
// gana la última escritura.
func (m *Memory) Set(key string, value any, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
}

// DeleteExpired elimina las entradas vencidas y devuelve cuántas quitó.
func (m *Memory) DeleteExpired() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

// Len número de entradas almacenadas (incluye vencidas aún no barridas).
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// ReadThrough une un Store con el TTL del proceso.
type ReadThrough struct {
	store Store
	ttl   time.Duration
}

// NewReadThrough construye la caché de lectura. El TTL se fija una vez por proceso.
func NewReadThrough(store Store, ttl time.Duration) *ReadThrough {
	return &ReadThrough{store: store, ttl: ttl}
}

// TTL devuelve la ventana de frescura configurada.
func (rt *ReadThrough) TTL() time.Duration {
	return rt.ttl
}

// Load devuelve el valor cacheado bajo key o, si no está (o venció), invoca loader,
// guarda el resultado y lo devuelve. Un error del loader se propaga sin tocar la caché:
// nunca se sirve un valor vencido como respaldo. Con rt nil se llama siempre al loader.
func Load[T any](ctx context.Context, rt *ReadThrough, key string, loader func(context.Context) (T, error)) (T, error) {
	if rt == nil || rt.store == nil {
		return loader(ctx)
	}
	if v, ok := rt.store.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	value, err := loader(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	rt.store.Set(key, value, rt.ttl)
	return value, nil
}
