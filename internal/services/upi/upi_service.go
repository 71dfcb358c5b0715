// Package upi builds the payment reference a buyer uses to pay for an
// order: a upi:// deep link plus a scannable QR image URL. Payment itself
// happens out of band; the buyer later attests the transaction id.
package upi

import (
	"fmt"
	"net/url"
)

type Service struct {
	UPIID     string
	PayeeName string
}

func New(upiID, payeeName string) *Service {
	if payeeName == "" {
		payeeName = "ValentineGift"
	}
	return &Service{UPIID: upiID, PayeeName: payeeName}
}

type PaymentRef struct {
	UPIID   string `json:"upi_id"`
	UPILink string `json:"upi_link"`
	QRURL   string `json:"qr_url"`
}

// PaymentRef returns the deep link and QR for one order. Amount is whole
// rupees, as the UPI am= parameter expects.
func (s *Service) PaymentRef(orderID string, amount int64) PaymentRef {
	link := fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%d&tn=Order_%s&cu=INR",
		url.QueryEscape(s.UPIID), url.QueryEscape(s.PayeeName), amount, orderID)
	qr := "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=" + url.QueryEscape(link)
	return PaymentRef{UPIID: s.UPIID, UPILink: link, QRURL: qr}
}
