// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess       = "success"
	KeyInternalError = "error.internal"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLogoutSuccess      = "auth.logout_success"

	// Users
	KeyUserNotFound = "user.not_found"

	// Catalog
	KeyCategoryNotFound = "category.not_found"
	KeyGigNotFound      = "gig.not_found"
	KeyGigOwnOrder      = "gig.own_order"

	// Orders
	KeyOrderNotFound          = "order.not_found"
	KeyOrderForbidden         = "order.forbidden"
	KeyOrderInvalidTransition = "order.invalid_transition"
	KeyOrderInvalidStatus     = "order.invalid_status"

	// Messages
	KeyMessageEmpty   = "message.empty"
	KeyMessageTooLong = "message.too_long"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"
	KeyValidationTooLong  = "validation.too_long"
	KeyValidationMinValue = "validation.min_value"
	KeyValidationEmail    = "validation.invalid_email"
	KeyValidationURL      = "validation.invalid_url"
	KeyValidationOneOf    = "validation.one_of"

	// File Upload
	KeyFileUploadFailed = "file.upload_failed"
	KeyFileInvalidType  = "file.invalid_type"
	KeyFileTooLarge     = "file.too_large"
	KeyFileRequired     = "file.required"

	// Rate limiting
	KeyRateLimited = "rate.limited"
)
