package apperr

import (
	"errors"
	"fmt"
)

// Kind is the category of a business error. It decides the transport status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindConflict:
		return "CONFLICT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	default:
		return "INTERNAL"
	}
}

const (
	CodeEmptyOrder           = "EMPTY_ORDER"
	CodeMissingPaymentMethod = "MISSING_PAYMENT_METHOD"
	CodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
	CodeInvalidQuantity      = "INVALID_QUANTITY"
	CodeInvalidPrice         = "INVALID_PRICE"
	CodeZeroQuantity         = "ZERO_QUANTITY"
	CodeInvalidReason        = "INVALID_REASON"
	CodeNameRequired         = "NAME_REQUIRED"
	CodeCategoryRequired     = "CATEGORY_REQUIRED"
	CodeProductNotFound      = "PRODUCT_NOT_FOUND"
	CodeCategoryNotFound     = "CATEGORY_NOT_FOUND"
	CodeSaleNotFound         = "SALE_NOT_FOUND"
	CodeInsufficientStock    = "INSUFFICIENT_STOCK"
	CodeInvalidStock         = "INVALID_STOCK"
	CodeDuplicateSlug        = "DUPLICATE_SLUG"
	CodeDuplicateSKU         = "DUPLICATE_SKU"
	CodeCategoryInUse        = "CATEGORY_IN_USE"
	CodeProductHasHistory    = "PRODUCT_HAS_HISTORY"
	CodeInvalidBody          = "INVALID_BODY"
	CodeUnauthenticated      = "UNAUTHENTICATED"
	CodeInternal             = "INTERNAL"
)

// Error is a business error. Fields carry the offending entity so callers
// can fix the request; they are also the template data for localization.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]interface{}
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error with the same code, so errors.Is(err, ErrEmptyOrder)
// works regardless of the fields attached.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newError(kind Kind, code, msg string, fields map[string]interface{}) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Fields: fields}
}

var (
	ErrEmptyOrder           = newError(KindValidation, CodeEmptyOrder, "order must contain at least one line", nil)
	ErrMissingPaymentMethod = newError(KindValidation, CodeMissingPaymentMethod, "payment method is required", nil)
	ErrZeroQuantity         = newError(KindValidation, CodeZeroQuantity, "quantity delta must not be zero", nil)
	ErrNameRequired         = newError(KindValidation, CodeNameRequired, "name is required", nil)
	ErrCategoryRequired     = newError(KindValidation, CodeCategoryRequired, "category is required", nil)
	ErrInvalidBody          = newError(KindValidation, CodeInvalidBody, "invalid request payload", nil)
	ErrUnauthenticated      = newError(KindUnauthenticated, CodeUnauthenticated, "missing store context", nil)

	ErrInvalidPaymentMethod = newError(KindValidation, CodeInvalidPaymentMethod, "invalid payment method", nil)
	ErrInvalidQuantity      = newError(KindValidation, CodeInvalidQuantity, "invalid quantity", nil)
	ErrInvalidPrice         = newError(KindValidation, CodeInvalidPrice, "invalid price", nil)
	ErrInvalidReason        = newError(KindValidation, CodeInvalidReason, "invalid adjustment reason", nil)
	ErrProductNotFound      = newError(KindNotFound, CodeProductNotFound, "product not found", nil)
	ErrCategoryNotFound     = newError(KindNotFound, CodeCategoryNotFound, "category not found", nil)
	ErrSaleNotFound         = newError(KindNotFound, CodeSaleNotFound, "sale not found", nil)
	ErrInsufficientStock    = newError(KindConflict, CodeInsufficientStock, "insufficient stock", nil)
	ErrInvalidStock         = newError(KindConflict, CodeInvalidStock, "stock cannot go negative", nil)
	ErrDuplicateSlug        = newError(KindConflict, CodeDuplicateSlug, "slug already exists", nil)
	ErrDuplicateSKU         = newError(KindConflict, CodeDuplicateSKU, "sku already exists", nil)
	ErrCategoryInUse        = newError(KindConflict, CodeCategoryInUse, "category has products", nil)
	ErrProductHasHistory    = newError(KindConflict, CodeProductHasHistory, "product has sales or stock movements", nil)
)

func InvalidPaymentMethod(value string) *Error {
	return newError(KindValidation, CodeInvalidPaymentMethod,
		fmt.Sprintf("invalid payment method %q", value),
		map[string]interface{}{"Value": value})
}

func InvalidQuantity(productID string, quantity int) *Error {
	return newError(KindValidation, CodeInvalidQuantity,
		fmt.Sprintf("quantity %d for product %s must be a positive integer", quantity, productID),
		map[string]interface{}{"ProductID": productID, "Quantity": quantity})
}

func QuantityOutOfRange(productID string, quantity int) *Error {
	return newError(KindValidation, CodeInvalidQuantity,
		fmt.Sprintf("quantity %d for product %s is out of range", quantity, productID),
		map[string]interface{}{"ProductID": productID, "Quantity": quantity})
}

func InvalidPrice(productID string) *Error {
	return newError(KindValidation, CodeInvalidPrice,
		fmt.Sprintf("price for product %s must not be negative", productID),
		map[string]interface{}{"ProductID": productID})
}

func InvalidReason(value string) *Error {
	return newError(KindValidation, CodeInvalidReason,
		fmt.Sprintf("invalid adjustment reason %q", value),
		map[string]interface{}{"Value": value})
}

func ProductNotFound(id string) *Error {
	return newError(KindNotFound, CodeProductNotFound,
		fmt.Sprintf("product %s not found", id),
		map[string]interface{}{"ID": id})
}

func CategoryNotFound(id string) *Error {
	return newError(KindNotFound, CodeCategoryNotFound,
		fmt.Sprintf("category %s not found", id),
		map[string]interface{}{"ID": id})
}

func SaleNotFound(id string) *Error {
	return newError(KindNotFound, CodeSaleNotFound,
		fmt.Sprintf("sale %s not found", id),
		map[string]interface{}{"ID": id})
}

func InsufficientStock(productID, name string, available, requested int) *Error {
	return newError(KindConflict, CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for %s: available %d, requested %d", name, available, requested),
		map[string]interface{}{"ProductID": productID, "Name": name, "Available": available, "Requested": requested})
}

func InvalidStock(productID string, previous, delta int) *Error {
	return newError(KindConflict, CodeInvalidStock,
		fmt.Sprintf("stock for product %s cannot go negative (%d %+d)", productID, previous, delta),
		map[string]interface{}{"ProductID": productID, "Previous": previous, "Delta": delta})
}

func DuplicateSlug(slug string) *Error {
	return newError(KindConflict, CodeDuplicateSlug,
		fmt.Sprintf("slug %q already exists", slug),
		map[string]interface{}{"Slug": slug})
}

func DuplicateSKU(sku string) *Error {
	return newError(KindConflict, CodeDuplicateSKU,
		fmt.Sprintf("sku %q already exists", sku),
		map[string]interface{}{"SKU": sku})
}

func CategoryInUse(id string, products int) *Error {
	return newError(KindConflict, CodeCategoryInUse,
		fmt.Sprintf("category %s still has %d products", id, products),
		map[string]interface{}{"ID": id, "Products": products})
}

func ProductHasHistory(id string) *Error {
	return newError(KindConflict, CodeProductHasHistory,
		fmt.Sprintf("product %s has sales or stock movements; deactivate it instead", id),
		map[string]interface{}{"ID": id})
}

// As returns the *Error wrapped in err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err; anything that is not an *Error is internal.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}
