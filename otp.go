package auth

import (
	"crypto/rand"
	"math/big"

	goerrors "github.com/goliatone/go-errors"
)

// OTPLength is the number of decimal digits in a one-time code.
const OTPLength = 6

var otpDigits = []byte("0123456789")

// GenerateOTP returns a 6-character string of decimal digits, each drawn
// independently and uniformly from crypto/rand. Codes are not predictable
// from prior outputs.
func GenerateOTP() (string, error) {
	max := big.NewInt(int64(len(otpDigits)))

	code := make([]byte, OTPLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate OTP")
		}
		code[i] = otpDigits[n.Int64()]
	}

	return string(code), nil
}
