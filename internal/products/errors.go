package products

import "errors"

// Validation errors. Callers can fix these by resubmitting corrected input.
var (
	ErrInvalidSku         = errors.New("invalid sku")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidDescription = errors.New("invalid description")
	ErrInvalidImageURL    = errors.New("invalid image url")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInvalidInventory   = errors.New("invalid inventory")
	ErrInvalidCategory    = errors.New("invalid category")
)

// Conflict errors.
var (
	ErrProductAlreadyExists = errors.New("product already exists")
	ErrDuplicatedProduct    = errors.New("duplicated product")
	ErrOutdatedVersion      = errors.New("outdated product version")
)

var ErrNotFound = errors.New("product not found")

// ErrInvalidEvent is returned when an event breaks the payload invariant
// (created/updated without a product, deleted without a sku) or cannot be decoded.
var ErrInvalidEvent = errors.New("invalid product event")

// Infrastructure errors. The underlying cause is kept in the message for logs
// but is not reachable through errors.Is.
var (
	ErrCreateProduct = errors.New("product creation failed")
	ErrGetProduct    = errors.New("get product failed")
	ErrUpdateProduct = errors.New("product update failed")
	ErrDeleteProduct = errors.New("product deletion failed")
	ErrSearchProduct = errors.New("product search failed")
)

// IsValidation reports whether err belongs to the validation group.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidSku,
		ErrInvalidName,
		ErrInvalidDescription,
		ErrInvalidImageURL,
		ErrInvalidPrice,
		ErrInvalidInventory,
		ErrInvalidCategory,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err belongs to the conflict group.
func IsConflict(err error) bool {
	return errors.Is(err, ErrProductAlreadyExists) ||
		errors.Is(err, ErrDuplicatedProduct) ||
		errors.Is(err, ErrOutdatedVersion)
}

// IsDomain reports whether err is a validation, conflict or not-found error,
// i.e. one that passes through the service boundary unchanged.
func IsDomain(err error) bool {
	return IsValidation(err) || IsConflict(err) || errors.Is(err, ErrNotFound)
}
