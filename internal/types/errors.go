package types

import "errors"

// Failures returned by the UTXO builder and the EVM deposit orchestrator.
// Callers match them with errors.Is; the wrapped message carries the detail.
var (
	ErrInvalidAddress    = errors.New("invalid address")
	ErrNoFunds           = errors.New("no utxos to spend")
	ErrInsufficientFunds = errors.New("balance insufficient for transaction")
	ErrMemoTooLarge      = errors.New("memo too large")
	ErrUnsupportedChain  = errors.New("unsupported chain")

	// ErrDataUnavailable is transient; the caller may retry the whole operation.
	ErrDataUnavailable = errors.New("chain data unavailable")

	ErrVaultUnresolved  = errors.New("vault address is not defined")
	ErrRouterUnresolved = errors.New("router address is not defined")

	// ErrAllowanceInsufficient is never resolved internally: the caller approves, then retries.
	ErrAllowanceInsufficient = errors.New("the amount is not allowed to spend")
	ErrFeeRateTooHigh        = errors.New("gas price exceeds max fee rate")

	ErrBroadcastFailed  = errors.New("broadcast failed")
	ErrSubmissionFailed = errors.New("submission failed")
)
