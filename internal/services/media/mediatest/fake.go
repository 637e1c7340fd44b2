// Package mediatest provides a deterministic media.Presigner for tests.
package mediatest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"
)

var ErrUnavailable = errors.New("storage endpoint unreachable")

// Presigner returns URLs of the form https://storage.test/<op>/<key>?ttl=<s>.
// FailAfter > 0 makes every call after that many successful ones fail.
type Presigner struct {
	mu        sync.Mutex
	FailAfter int
	Fail      bool
	Calls     int
	PutTypes  map[string]string
}

func New() *Presigner {
	return &Presigner{PutTypes: make(map[string]string)}
}

func (p *Presigner) PresignPut(_ context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if err := p.call(); err != nil {
		return "", err
	}
	p.mu.Lock()
	p.PutTypes[key] = contentType
	p.mu.Unlock()
	return URL("put", key, ttl), nil
}

func (p *Presigner) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	if err := p.call(); err != nil {
		return "", err
	}
	return URL("get", key, ttl), nil
}

func (p *Presigner) call() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Fail || (p.FailAfter > 0 && p.Calls >= p.FailAfter) {
		return ErrUnavailable
	}
	p.Calls++
	return nil
}

// URL is the URL the fake returns for op ("put" or "get") on key.
func URL(op, key string, ttl time.Duration) string {
	return fmt.Sprintf("https://storage.test/%s/%s?ttl=%d", op, url.PathEscape(key), int(ttl.Seconds()))
}
