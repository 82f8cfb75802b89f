package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	orderDomain "github.com/ridloal/mushaf-storefront/internal/order/domain"
)

type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

const SuccessMessage = "Order placed! You will receive a confirmation call soon."

// Pakistani mobile number: 03XX-XXXXXXX, hyphen optional.
var phonePattern = regexp.MustCompile(`^03\d{2}-?\d{7}$`)

func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

var (
	ErrCartEmpty            = errors.New("cart empty")
	ErrProductUnavailable   = errors.New("product unavailable")
	ErrQuantityExceedsStock = errors.New("quantity exceeds stock")
	ErrInvalidPhone         = errors.New("invalid phone number")
	ErrMissingContactField  = errors.New("missing contact field")
	ErrSubmissionInProgress = errors.New("order submission already in progress")
)

// ValidationError is a user-correctable checkout failure. Kind is one of the
// Err* sentinels above and is what errors.Is matches against.
type ValidationError struct {
	Kind        error  `json:"-"`
	Message     string `json:"message"`
	ProductID   string `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Available   int    `json:"available,omitempty"`
	Field       string `json:"field,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func CartEmptyError() *ValidationError {
	return &ValidationError{Kind: ErrCartEmpty, Message: "cart empty: add at least one product to your cart before checking out"}
}

func UnavailableError(productID, name string) *ValidationError {
	return &ValidationError{
		Kind:        ErrProductUnavailable,
		Message:     fmt.Sprintf("%s is unavailable. Please remove it from your cart.", name),
		ProductID:   productID,
		ProductName: name,
	}
}

func OverLimitError(productID, name string, available int) *ValidationError {
	return &ValidationError{
		Kind:        ErrQuantityExceedsStock,
		Message:     fmt.Sprintf("Only %d unit(s) of %s are available.", available, name),
		ProductID:   productID,
		ProductName: name,
		Available:   available,
	}
}

func InvalidPhoneError() *ValidationError {
	return &ValidationError{Kind: ErrInvalidPhone, Message: "Enter a valid Pakistan mobile number (03XX-XXXXXXX).", Field: "phone"}
}

func MissingFieldError(field string) *ValidationError {
	return &ValidationError{Kind: ErrMissingContactField, Message: fmt.Sprintf("%s is required.", field), Field: field}
}

type ContactForm struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	Address string `json:"address"`
}

func (f ContactForm) Trimmed() ContactForm {
	return ContactForm{
		Name:    strings.TrimSpace(f.Name),
		Phone:   strings.TrimSpace(f.Phone),
		City:    strings.TrimSpace(f.City),
		Address: strings.TrimSpace(f.Address),
	}
}

func (f ContactForm) ContactFields() orderDomain.ContactFields {
	t := f.Trimmed()
	return orderDomain.ContactFields{CustomerName: t.Name, Phone: t.Phone, City: t.City, Address: t.Address}
}

// Status is what the storefront shows under the checkout form.
type Status struct {
	State   State       `json:"state"`
	Form    ContactForm `json:"form"`
	Error   string      `json:"error,omitempty"`
	Success string      `json:"success,omitempty"`
}

type Confirmation struct {
	Message string                  `json:"message"`
	Order   *orderDomain.OrderGroup `json:"order"`
}
