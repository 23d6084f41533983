package flow

import (
	"fmt"
	"strings"

	"github.com/kirinyoku/citybus/internal/domain"
)

// CodeVerifier decides whether a one-time code is accepted.
type CodeVerifier interface {
	Verify(phone, code string) bool
}

// PaymentGateway decides whether a booking payment goes through.
type PaymentGateway interface {
	Approve(b domain.Booking) bool
}

type AcceptAnyCode struct{}

func (AcceptAnyCode) Verify(string, string) bool { return true }

// FixedCode accepts exactly one code for every phone.
type FixedCode string

func (f FixedCode) Verify(_, code string) bool { return string(f) == code }

type ApproveAll struct{}

func (ApproveAll) Approve(domain.Booking) bool { return true }

type DeclineAll struct{}

func (DeclineAll) Approve(domain.Booking) bool { return false }

// ParseCodeVerifier understands "accept" and "fixed:<code>".
func ParseCodeVerifier(s string) (CodeVerifier, error) {
	switch {
	case s == "" || s == "accept":
		return AcceptAnyCode{}, nil
	case strings.HasPrefix(s, "fixed:"):
		code := strings.TrimPrefix(s, "fixed:")
		if code == "" || len([]rune(code)) > MaxCodeLength {
			return nil, fmt.Errorf("invalid fixed code %q", code)
		}
		return FixedCode(code), nil
	default:
		return nil, fmt.Errorf("unknown otp policy %q", s)
	}
}

// ParsePaymentGateway understands "approve" and "decline".
func ParsePaymentGateway(s string) (PaymentGateway, error) {
	switch s {
	case "", "approve":
		return ApproveAll{}, nil
	case "decline":
		return DeclineAll{}, nil
	default:
		return nil, fmt.Errorf("unknown payment policy %q", s)
	}
}
