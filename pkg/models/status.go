package models

// ValidationStatus is the invoice's position in the validation lifecycle.
type ValidationStatus string

const (
	StatusPending            ValidationStatus = "pending"
	StatusValid              ValidationStatus = "valid"
	StatusInvalid            ValidationStatus = "invalid"
	StatusError              ValidationStatus = "error"
	StatusOCRProcessed       ValidationStatus = "ocr_processed"
	StatusXRechnungGenerated ValidationStatus = "xrechnung_generated"
)

// PaymentStatus is the invoice's payment state.
type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "unpaid"
	PaymentPaid      PaymentStatus = "paid"
	PaymentPartial   PaymentStatus = "partial"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Tone is the color family a status badge is drawn in.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneInfo    Tone = "info"
	ToneNeutral Tone = "neutral"
)

// Badge is the display form of a status value.
type Badge struct {
	Label string
	Tone  Tone
}

var validationBadges = map[ValidationStatus]Badge{
	StatusPending:            {"Pending", ToneNeutral},
	StatusValid:              {"Valid", ToneSuccess},
	StatusInvalid:            {"Invalid", ToneDanger},
	StatusError:              {"Error", ToneDanger},
	StatusOCRProcessed:       {"OCR processed", ToneInfo},
	StatusXRechnungGenerated: {"XRechnung generated", ToneSuccess},
}

var paymentBadges = map[PaymentStatus]Badge{
	PaymentUnpaid:    {"Unpaid", ToneWarning},
	PaymentPaid:      {"Paid", ToneSuccess},
	PaymentPartial:   {"Partially paid", ToneInfo},
	PaymentOverdue:   {"Overdue", ToneDanger},
	PaymentCancelled: {"Cancelled", ToneNeutral},
}

// Badge returns the label and tone; unknown values render verbatim.
func (s ValidationStatus) Badge() Badge {
	if b, ok := validationBadges[s]; ok {
		return b
	}
	return Badge{Label: string(s), Tone: ToneNeutral}
}

func (s ValidationStatus) Label() string { return s.Badge().Label }

// Known reports whether s is one of the documented statuses.
func (s ValidationStatus) Known() bool {
	_, ok := validationBadges[s]
	return ok
}

func (s PaymentStatus) Badge() Badge {
	if b, ok := paymentBadges[s]; ok {
		return b
	}
	return Badge{Label: string(s), Tone: ToneNeutral}
}

func (s PaymentStatus) Label() string { return s.Badge().Label }

func (s PaymentStatus) Known() bool {
	_, ok := paymentBadges[s]
	return ok
}

// PaymentStatuses lists the values accepted by the payment-status endpoint.
func PaymentStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentUnpaid, PaymentPaid, PaymentPartial, PaymentOverdue, PaymentCancelled}
}
