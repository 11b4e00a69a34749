package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

const (
	DefaultMaxSize = 1000
	DefaultTTL     = 5 * time.Minute
)

// entry é o valor guardado em cada elemento da lista de uso
type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// LRU é um cache limitado por tamanho com expiração por entrada.
// A expiração é verificada apenas no acesso, não existe limpeza em background.
type LRU[V any] struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List // frente = mais recentemente usado
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*options)

type options struct {
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

// WithMaxSize define a capacidade máxima do cache
func WithMaxSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSize = n
		}
	}
}

// WithTTL define o TTL padrão das entradas
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock permite injetar o relógio (usado nos testes)
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func New[V any](opts ...Option) *LRU[V] {
	o := options{
		maxSize: DefaultMaxSize,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &LRU[V]{
		items:   make(map[string]*list.Element, o.maxSize),
		order:   list.New(),
		maxSize: o.maxSize,
		ttl:     o.ttl,
		now:     o.now,
	}
}

// Get retorna o valor se existir e não estiver expirado.
// Entradas expiradas são removidas; as válidas passam a ser as mais recentes.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V

	el, ok := c.items[key]
	if !ok {
		return zero, false
	}

	e := el.Value.(*entry[V])
	if c.now().After(e.expiresAt) {
		c.removeElement(el)
		return zero, false
	}

	c.order.MoveToFront(el)
	return e.value, true
}

// Set grava o valor com o TTL padrão
func (c *LRU[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL grava o valor com um TTL específico para esta entrada
func (c *LRU[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}

	if c.order.Len() >= c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}

	el := c.order.PushFront(&entry[V]{
		key:       key,
		value:     value,
		expiresAt: c.now().Add(ttl),
	})
	c.items[key] = el
}

func (c *LRU[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}

	c.removeElement(el)
	return true
}

// DeleteByPrefix remove todas as entradas cuja chave começa com o prefixo.
// Usado para invalidar os dados de um projeto inteiro.
func (c *LRU[V]) DeleteByPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, el := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.removeElement(el)
			removed++
		}
	}

	return removed
}

func (c *LRU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element, c.maxSize)
	c.order.Init()
}

// Len inclui entradas já expiradas que ainda não foram acessadas
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

func (c *LRU[V]) removeElement(el *list.Element) {
	e := el.Value.(*entry[V])
	delete(c.items, e.key)
	c.order.Remove(el)
}
