package common

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/smithy-go"
)

// NewRetryer returns the SDK retryer used by every client of a profile.
// Transient failures (connection resets, 5xx, timeouts) get maxRetries+1
// attempts. Throttling errors are returned after the first attempt; the
// engine retries those itself.
func NewRetryer(maxRetries int) func() aws.Retryer {
	return newRetryer(maxRetries, nil)
}

func newRetryer(maxRetries int, backoff retry.BackoffDelayer) func() aws.Retryer {
	return func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries + 1
			o.Retryables = append([]retry.IsErrorRetryable{throttleNotRetryable{}}, retry.DefaultRetryables...)
			if backoff != nil {
				o.Backoff = backoff
			}
		})
	}
}

// throttleNotRetryable vetoes SDK retries for throttling error codes. It
// runs before the default retryables, so a 503 RequestLimitExceeded is not
// retried by status code either.
type throttleNotRetryable struct{}

func (throttleNotRetryable) IsErrorRetryable(err error) aws.Ternary {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if _, ok := retry.DefaultThrottleErrorCodes[apiErr.ErrorCode()]; ok {
			return aws.FalseTernary
		}
	}
	return aws.UnknownTernary
}
