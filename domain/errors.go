package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")

	// request error
	ErrInvalidAddress = errors.New("Invalid address")

	// marketplace preconditions
	ErrNotOwner         = errors.New("caller does not own the token")
	ErrNotApproved      = errors.New("marketplace is not approved to transfer the token")
	ErrAlreadyListed    = errors.New("token already has an active listing")
	ErrNotListed        = errors.New("token is not listed")
	ErrPriceTooLow      = errors.New("payment below listed price")
	ErrInvalidPrice     = errors.New("price must be positive")
	ErrAlreadyOnAuction = errors.New("token already has an active auction")
	ErrNoAuction        = errors.New("token is not on auction")
	ErrInvalidDuration  = errors.New("auction duration out of range")
	ErrBidTooLow        = errors.New("bid below minimum acceptable amount")
	ErrSelfBid          = errors.New("seller cannot bid on own auction")
	ErrAuctionEnded     = errors.New("auction already ended")
	ErrAuctionNotEnded  = errors.New("auction has not ended yet")
	ErrAuctionHasBids   = errors.New("auction with bids cannot be canceled")
	ErrNotAuthorized    = errors.New("caller is not authorized for this action")

	// settlement / payouts
	ErrTransferFailed    = errors.New("value transfer failed")
	ErrTokenTransferFail = errors.New("token transfer failed")
	ErrNothingToWithdraw = errors.New("no pending withdrawal")
	ErrFeeTooHigh        = errors.New("fee exceeds maximum basis points")
)
