package models

// InvoiceStatus is the lifecycle state of an invoice. Paid and Cancelled are
// terminal; Cancelled freezes all balance mutation.
type InvoiceStatus string

const (
	StatusDraft         InvoiceStatus = "Draft"
	StatusUnpaid        InvoiceStatus = "Unpaid"
	StatusPartiallyPaid InvoiceStatus = "Partially Paid"
	StatusPaid          InvoiceStatus = "Paid"
	StatusCancelled     InvoiceStatus = "Cancelled"
)

// InvoiceStatuses lists every valid status, in lifecycle order.
var InvoiceStatuses = []InvoiceStatus{
	StatusDraft, StatusUnpaid, StatusPartiallyPaid, StatusPaid, StatusCancelled,
}

// ValidStatus reports whether s is one of the enumerated invoice statuses.
func ValidStatus(s InvoiceStatus) bool {
	for _, v := range InvoiceStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// BillingMode selects how an invoice total is priced: Ready bills by total
// weight, Mazduri bills by per-piece labor rate.
type BillingMode string

const (
	ModeReady   BillingMode = "Ready"
	ModeMazduri BillingMode = "Mazduri"
)

// BillingModes lists the supported billing modes.
var BillingModes = []BillingMode{ModeReady, ModeMazduri}

// ValidBillingMode reports whether m is a supported billing mode.
func ValidBillingMode(m BillingMode) bool {
	return m == ModeReady || m == ModeMazduri
}

// PaymentMethod is how a payment was settled.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "Cash"
	MethodBankTransfer PaymentMethod = "Bank Transfer"
	MethodCheque       PaymentMethod = "Cheque"
	MethodMobileWallet PaymentMethod = "Mobile Wallet"
)

// PaymentMethods lists the accepted settlement methods.
var PaymentMethods = []PaymentMethod{
	MethodCash, MethodBankTransfer, MethodCheque, MethodMobileWallet,
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	for _, v := range PaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}
