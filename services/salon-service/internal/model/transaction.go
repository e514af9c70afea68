package model

import "time"

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentPaypal PaymentMethod = "paypal"
	PaymentOnline PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentPaypal, PaymentOnline:
		return true
	}
	return false
}

type Transaction struct {
	ID              string        `json:"id"`
	CustomerID      string        `json:"customerId"`
	ServiceID       string        `json:"serviceId"`
	Amount          Money         `json:"amount"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	TransactionDate time.Time     `json:"transactionDate"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`

	Service  *ServiceSummary `json:"service,omitempty"`
	Customer *UserSummary    `json:"customer,omitempty"`
}

type TransactionTotal struct {
	TotalAmount       Money `json:"totalAmount"`
	TotalTransactions int   `json:"totalTransactions"`
}
