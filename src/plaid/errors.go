package plaid

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/plaid/plaid-go/v41/plaid"

	"fintrack-server/src/linking"
)

// classify turns a failed Plaid call into a linking error. Only Plaid's
// error type and code make it into the message.
func classify(op string, httpResp *http.Response, err error) error {
	status := 0
	if httpResp != nil {
		status = httpResp.StatusCode
	}

	var errorType, errorCode string
	if plaidErr, perr := plaid.ToPlaidError(err); perr == nil {
		errorType = string(plaidErr.GetErrorType())
		errorCode = plaidErr.GetErrorCode()
	}

	message := fmt.Sprintf("Aggregator %s failed", op)
	if errorCode != "" {
		message = fmt.Sprintf("%s: %s", message, errorCode)
	}
	cause := fmt.Errorf("status %d type %q: %w", status, errorType, err)

	if rejected(status, errorType, errorCode, err) {
		return linking.UpstreamRejected(message, cause)
	}
	return linking.UpstreamUnavailable(message, cause)
}

func rejected(status int, errorType, errorCode string, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return false
	}

	switch errorType {
	case "RATE_LIMIT_EXCEEDED", "API_ERROR", "INSTITUTION_ERROR":
		return false
	case "INVALID_REQUEST", "INVALID_INPUT", "ITEM_ERROR", "INVALID_RESULT":
		return true
	}
	if errorCode == "PRODUCT_NOT_READY" {
		return false
	}
	return status >= 400 && status < 500 && status != http.StatusTooManyRequests
}
