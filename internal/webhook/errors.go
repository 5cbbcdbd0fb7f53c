package webhook

import (
	"errors"
	"fmt"
	"net/http"
)

// ConfigurationError reports a missing or unusable webhook endpoint. It is
// raised before any network activity.
type ConfigurationError struct {
	Endpoint string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Endpoint == "" {
		return "webhook endpoint not configured: " + e.Reason
	}
	return fmt.Sprintf("invalid webhook endpoint %q: %s", e.Endpoint, e.Reason)
}

// StatusCode maps configuration problems to 503 for the HTTP layer.
func (e *ConfigurationError) StatusCode() int { return http.StatusServiceUnavailable }

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// TransportError reports a failed webhook call: network failure, timeout, or a
// non-2xx status. Status is zero when no response was received.
type TransportError struct {
	Status  int
	Body    string
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0:
		msg := fmt.Sprintf("webhook http error: %d %s", e.Status, http.StatusText(e.Status))
		if e.Body != "" {
			msg += ": " + e.Body
		}
		return msg
	case e.Timeout:
		return "webhook request timed out: " + errString(e.Err)
	default:
		return "webhook request failed: " + errString(e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusCode maps transport failures to 502 for the HTTP layer.
func (e *TransportError) StatusCode() int { return http.StatusBadGateway }

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
