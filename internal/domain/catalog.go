package domain

import "strconv"

// Request validation.

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", "missing required field"),
		map[string]string{"field": field})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"),
		map[string]string{"field": field, "reason": reason})
}

// ErrValidationFailed carries one translated message per failing field.
func ErrValidationFailed(fields map[string]string) *Error {
	return WithMeta(New(KindValidation, "validation_failed", "request validation failed"), fields)
}

func ErrFileTooLarge(limit int64) *Error {
	return WithMeta(New(KindValidation, "file_too_large", "uploaded file is too large"),
		map[string]string{"limit_bytes": strconv.FormatInt(limit, 10)})
}

func ErrUnsupportedMediaType(mime string) *Error {
	return WithMeta(New(KindValidation, "unsupported_media_type", "unsupported file type"),
		map[string]string{"mime": mime})
}

// Verification secrets. Wrong, expired and already used secrets are indistinguishable.

func ErrVerifyTokenInvalid() *Error {
	return New(KindValidation, "verify_token_invalid", "verification link is invalid or expired")
}

func ErrVerifyCodeInvalid() *Error {
	return New(KindValidation, "verify_code_invalid", "verification code is invalid or expired")
}

// Authentication. Every login failure uses ErrInvalidCredentials so accounts cannot be enumerated.

func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "invalid email or password")
}

func ErrTokenMissing() *Error { return New(KindAuth, "token_missing", "no token provided") }
func ErrTokenInvalid() *Error { return New(KindAuth, "token_invalid", "invalid token") }
func ErrTokenExpired() *Error { return New(KindAuth, "token_expired", "token is expired") }

// Lookups.

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "user not found")
}

func ErrCompanyNotFound() *Error {
	return New(KindNotFound, "company_not_found", "company profile not found")
}

func ErrMediaNotFound() *Error {
	return New(KindNotFound, "media_not_found", "media not found")
}

// ErrOneTimeTokenNotFound is returned by one-time token stores for unknown,
// expired or already consumed entries. Flows translate it before it reaches a client.
func ErrOneTimeTokenNotFound() *Error {
	return New(KindNotFound, "one_time_token_not_found", "one-time token not found")
}

// Uniqueness.

// ErrUserAlreadyExists covers both an email and a mobile collision.
func ErrUserAlreadyExists() *Error {
	return New(KindConflict, "user_already_exists", "user already exists")
}

func ErrCompanyAlreadyExists() *Error {
	return New(KindConflict, "company_already_exists", "company profile already exists")
}

func ErrRateLimited(scope string) *Error {
	return WithMeta(New(KindRateLimited, "rate_limited", "too many requests"),
		map[string]string{"scope": scope})
}

// Dependencies and server faults.

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrRedisUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "redis_unavailable", "cache unavailable", cause)
}

func ErrMediaUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "media_unavailable", "media storage unavailable", cause)
}

func ErrBrokerUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "broker_unavailable", "event broker unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrRandomFailed(cause error) *Error {
	return Wrap(KindInternal, "random_failed", "random generation failed", cause)
}
