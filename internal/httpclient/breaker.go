package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// errServerStatus помечает ответ 5xx как неудачу для circuit breaker.
var errServerStatus = errors.New("ответ 5xx")

// BreakerSettings — параметры circuit breaker.
type BreakerSettings struct {
	// Name — имя breaker в логах
	Name string
	// MaxFailures — количество подряд неудачных запросов до размыкания
	MaxFailures uint32
	// OpenTimeout — время в разомкнутом состоянии
	OpenTimeout time.Duration
}

// breakerTransport — RoundTripper, размыкающийся после серии
// транспортных ошибок или ответов 5xx. Ответы 4xx считаются успешными.
type breakerTransport struct {
	next http.RoundTripper
	cb   *gobreaker.CircuitBreaker
}

func newBreakerTransport(next http.RoundTripper, s BreakerSettings, onChange func(name string, from, to gobreaker.State)) *breakerTransport {
	maxFailures := s.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	return &breakerTransport{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        s.Name,
			MaxRequests: 1,
			Timeout:     s.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: onChange,
		}),
	}
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.cb.Execute(func() (interface{}, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})

	switch {
	case errors.Is(err, errServerStatus):
		return res.(*http.Response), nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("бэкенд временно недоступен (circuit breaker %s): %w", t.cb.Name(), err)
	case err != nil:
		return nil, err
	}
	return res.(*http.Response), nil
}
