package domain

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrInsufficientBalance = errors.New("Insufficient balance")
var ErrAccountInactive = errors.New("account is inactive")
var ErrInvalidAmount = errors.New("amount must be greater than zero")
var ErrSelfTransfer = errors.New("cannot transfer funds to yourself")
var ErrMissingContact = errors.New("email address is required")
var ErrOtpNotFound = errors.New("otp code not found")
var ErrOtpExpired = errors.New("otp code has expired")
var ErrOtpAlreadyUsed = errors.New("otp code has already been used")
var ErrNotRefundable = errors.New("transaction is not eligible for refund")
var ErrPermissionDenied = errors.New("permission denied")
var ErrInvalidCredentials = errors.New("invalid credentials")
