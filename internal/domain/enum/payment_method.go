package enum

// PaymentMethod is how a customer settled (part of) an order
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

var paymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodMobileMoney,
	PaymentMethodBankTransfer,
}

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	for _, v := range paymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

// PaymentMethodValues lists the accepted method strings
func PaymentMethodValues() []string {
	out := make([]string, len(paymentMethods))
	for i, v := range paymentMethods {
		out[i] = string(v)
	}
	return out
}

// PaymentRecordStatus is the status stored on a payment row
type PaymentRecordStatus string

// PaymentRecordPaid is the status of every recorded payment
const PaymentRecordPaid PaymentRecordStatus = "paid"
