package probe

import (
	"context"
	"net/http"
	"time"

	"github.com/statuspng/statuspng/internal/types"
)

// DefaultTimeout is applied when a monitor has no timeout configured.
const DefaultTimeout = 30

// Result is the classified outcome of a single probe. Exactly one of
// StatusCode and ErrorMessage is set: a received response always carries
// its status code (even >= 500), a transport failure carries the error.
type Result struct {
	Status       string `json:"status"`
	ResponseTime int    `json:"response_time"` // Milliseconds
	StatusCode   *int   `json:"status_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type Prober struct{}

func NewProber() *Prober {
	return &Prober{}
}

// Probe issues one GET against url and classifies the outcome. Any
// response with a status code in [200, 500) is up: a 4xx means the
// service is reachable and answering, not down. A >= 500 response or any
// transport failure (timeout, DNS, refused, TLS) is down. No retries;
// repeated checks come only from repeated invocation.
func (p *Prober) Probe(ctx context.Context, url string, timeoutSeconds int) Result {
	if timeoutSeconds <= 0 {
		timeoutSeconds = DefaultTimeout
	}

	client := &http.Client{
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{
			Status:       types.StatusDown,
			ResponseTime: int(time.Since(start).Milliseconds()),
			ErrorMessage: err.Error(),
		}
	}

	resp, err := client.Do(req)
	responseTime := int(time.Since(start).Milliseconds())

	if err != nil {
		return Result{
			Status:       types.StatusDown,
			ResponseTime: responseTime,
			ErrorMessage: err.Error(),
		}
	}

	defer resp.Body.Close()

	status := types.StatusDown
	if resp.StatusCode >= 200 && resp.StatusCode < 500 {
		status = types.StatusUp
	}

	code := resp.StatusCode
	return Result{
		Status:       status,
		ResponseTime: responseTime,
		StatusCode:   &code,
	}
}
