package receipt

import "errors"

// Domain errors for the receipt engine. Handlers map these onto HTTP
// status codes: not-found -> 404, conflicts -> 409, the rest -> 400.
var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrReceiptNotFound  = errors.New("receipt not found")
	ErrPaymentNotFound  = errors.New("payment registry not found")

	ErrPaymentAssigned      = errors.New("payment already assigned to another receipt")
	ErrPaymentWrongProvider = errors.New("payment service belongs to a different provider")
	ErrReceiptVoided        = errors.New("receipt is voided and read-only")
	ErrFolioConflict        = errors.New("folio conflict persisted after retry")
)
