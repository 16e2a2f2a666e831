//go:generate go tool stringer -type=PaymentStatus -trimprefix=PAYMENT_

package registration

import "fmt"

type PaymentStatus int

const (
	PAYMENT_PENDING PaymentStatus = iota
	PAYMENT_COMPLETED
	PAYMENT_FAILED
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for p := PAYMENT_PENDING; p <= PAYMENT_FAILED; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return PAYMENT_PENDING, fmt.Errorf("unknown payment status: %q", s)
}
