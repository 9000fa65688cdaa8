package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fwojciec/pagegrade"
)

var _ pagegrade.TypeProber = (*Prober)(nil)

// Prober reads the declared Content-Type of a URL without downloading it.
type Prober struct {
	client *http.Client
	config
}

// NewProber creates a Prober.
func NewProber(opts ...Option) *Prober {
	p := &Prober{config: newConfig(DefaultProbeTimeout, 0, opts)}
	p.client = &http.Client{
		Timeout: p.timeout,
	}
	return p
}

// Probe issues a HEAD request and returns the Content-Type header.
// Servers that refuse HEAD get a GET whose body is discarded unread.
func (p *Prober) Probe(ctx context.Context, url string) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, hostOf(url)); err != nil {
			return "", err
		}
	}

	resp, err := p.do(ctx, http.MethodHead, url)
	if err != nil {
		return "", err
	}
	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		resp, err = p.do(ctx, http.MethodGet, url)
		if err != nil {
			return "", err
		}
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return resp.Header.Get("Content-Type"), nil
}

func (p *Prober) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return resp, nil
}
