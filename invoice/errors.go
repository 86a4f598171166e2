package invoice

import "errors"

var (
	// ErrOnlyOwner indicates the caller does not hold the owner role.
	ErrOnlyOwner = errors.New("invoice: caller is not the owner")

	// ErrOnlyController indicates the caller does not hold the controller role.
	ErrOnlyController = errors.New("invoice: caller is not the controller")

	// ErrOnlyDistributor indicates the caller does not hold the distributor role.
	ErrOnlyDistributor = errors.New("invoice: caller is not a distributor")

	// ErrImmutableRecipients indicates the recipient schedule has been
	// permanently locked.
	ErrImmutableRecipients = errors.New("invoice: recipients are immutable")

	// ErrImmutableController indicates the controller role has been
	// cleared and can never be assigned again.
	ErrImmutableController = errors.New("invoice: controller is immutable")

	// ErrControllerAlreadyConfigured indicates a reassignment to the
	// address that is already the controller.
	ErrControllerAlreadyConfigured = errors.New("invoice: controller already configured")

	// ErrNullAddressRecipient indicates a schedule entry with the null address.
	ErrNullAddressRecipient = errors.New("invoice: null recipient address")

	// ErrRecipientAlreadyAdded indicates a recipient appears twice in a schedule.
	ErrRecipientAlreadyAdded = errors.New("invoice: recipient already added")

	// ErrNullAddressOwner indicates an ownership transfer to the null
	// address; use RenounceOwnership to give up the role.
	ErrNullAddressOwner = errors.New("invoice: new owner is the null address")

	// ErrLowBalance indicates the held balance cannot cover the full
	// schedule plus the platform fee.
	ErrLowBalance = errors.New("invoice: balance below required amount")

	// ErrTransferFailed indicates an outbound payout or fee transfer did
	// not succeed; the whole redistribution is unwound.
	ErrTransferFailed = errors.New("invoice: transfer failed")

	// ErrEmptySchedule indicates a redistribution attempt with no
	// recipients configured.
	ErrEmptySchedule = errors.New("invoice: empty recipient schedule")

	// ErrAssetMismatch indicates the wrong redistribution entry point was
	// called for the invoice's configured asset.
	ErrAssetMismatch = errors.New("invoice: asset mismatch")

	// ErrAlreadyInitialized indicates a second Initialize call.
	ErrAlreadyInitialized = errors.New("invoice: already initialized")

	// ErrNotInitialized indicates an operation on an uninitialized invoice.
	ErrNotInitialized = errors.New("invoice: not initialized")

	// ErrNilLedger indicates initialization without an asset ledger.
	ErrNilLedger = errors.New("invoice: nil asset ledger")

	// ErrNullToken indicates a token-asset invoice without a token address.
	ErrNullToken = errors.New("invoice: null token address")

	// ErrInvalidStateData indicates a malformed serialized invoice state.
	ErrInvalidStateData = errors.New("invoice: invalid state data")
)
