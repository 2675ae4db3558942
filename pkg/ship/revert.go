package ship

import (
	"strings"

	apperrors "github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/app/errors"
)

// Known revert reasons from the factory contract, each mapped to a specific
// user-facing explanation. Concurrent boarding races make these expected
// outcomes, not exceptional ones.
var revertReasons = []struct {
	needle  string
	message string
}{
	{"ShipFull", "This ship is already full. Another passenger took the last seat."},
	{"AlreadyLaunched", "This ship has already launched; boarding is closed."},
	{"AlreadyPassenger", "You have already boarded this ship."},
	{"InsufficientFee", "The attached fee does not cover the required amount."},
	{"TokenTransferFailed", "Token transfer failed. Check your balance and approvals."},
}

var networkNeedles = []string{
	"nonce too low",
	"nonce too high",
	"replacement transaction underpriced",
	"connection refused",
	"i/o timeout",
	"context deadline exceeded",
}

// mapSubmitError translates a submission-time error into the taxonomy the
// caller surfaces to the user. Unrecognized errors keep their raw text.
func mapSubmitError(err error) error {
	if err == nil {
		return nil
	}
	text := err.Error()

	if strings.Contains(text, "user denied") || strings.Contains(text, "user rejected") {
		return apperrors.UserRejectedError(err)
	}
	if strings.Contains(text, "insufficient funds") {
		return apperrors.InsufficientFundsError(err)
	}
	for _, reason := range revertReasons {
		if strings.Contains(text, reason.needle) {
			return apperrors.RemoteRejectionError(err, reason.message)
		}
	}
	for _, needle := range networkNeedles {
		if strings.Contains(text, needle) {
			return apperrors.NetworkError(err)
		}
	}
	return apperrors.GeneralError(err)
}
