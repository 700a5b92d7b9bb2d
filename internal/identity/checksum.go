package identity

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// GB 11643-1999 checksum tables. Both are normative: any deviation
// produces an invalid resident ID number.
var idWeights = [17]int{7, 9, 10, 5, 8, 4, 2, 1, 6, 3, 7, 9, 10, 5, 8, 4, 2}

const idCheckChars = "10X98765432"

// IDChecksum computes the 18th character of a resident ID number from
// its 17-digit prefix. The prefix must be exactly 17 decimal digits.
func IDChecksum(prefix string) (byte, error) {
	if len(prefix) != 17 || !allDigits(prefix) {
		return 0, fmt.Errorf("id prefix must be exactly 17 digits, got %q", prefix)
	}
	sum := 0
	for i := 0; i < 17; i++ {
		sum += int(prefix[i]-'0') * idWeights[i]
	}
	return idCheckChars[sum%11], nil
}

// newIDNumber assembles an 18-character resident ID number: 6-digit
// area code, YYYYMMDD birthdate, 3-digit sequence code (odd for male,
// even for female, uniform otherwise), checksum character.
func newIDNumber(r *rand.Rand, birth time.Time, areaCode, gender string) (string, error) {
	if len(areaCode) != 6 || !allDigits(areaCode) {
		return "", fmt.Errorf("area code must be exactly 6 digits, got %q", areaCode)
	}

	var seq int
	switch gender {
	case genderMale:
		seq = 2*r.IntN(499) + 1 // 1..997
	case genderFemale:
		seq = 2 * (r.IntN(499) + 1) // 2..998
	default:
		seq = randRange(r, 1, 999)
	}

	prefix := fmt.Sprintf("%s%s%03d", areaCode, birth.Format("20060102"), seq)
	check, err := IDChecksum(prefix)
	if err != nil {
		return "", err
	}
	return prefix + string(check), nil
}

// luhnCheckDigit returns the digit that makes body+digit pass the Luhn
// check: with the check digit appended, the rightmost body digit is in
// a doubled position.
func luhnCheckDigit(body string) byte {
	sum := 0
	double := true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return byte('0' + (10-sum%10)%10)
}

// socialCreditCheckChar computes the 18th character of a unified social
// credit code over the 31-symbol alphabet: each body character maps to
// its alphabet index, indexes are weighted-summed, and the check char
// is alphabet[(31 - sum mod 31) mod 31].
func socialCreditCheckChar(body, alphabet string, weights []int) (byte, error) {
	if len(body) != 17 {
		return 0, fmt.Errorf("social credit body must be 17 characters, got %q", body)
	}
	if len(alphabet) == 0 || len(weights) < 17 {
		return 0, fmt.Errorf("social credit tables incomplete: %d symbols, %d weights", len(alphabet), len(weights))
	}
	m := len(alphabet)
	sum := 0
	for i := 0; i < 17; i++ {
		idx := strings.IndexByte(alphabet, body[i])
		if idx < 0 {
			return 0, fmt.Errorf("character %q outside social credit alphabet", body[i])
		}
		sum += idx * weights[i]
	}
	return alphabet[(m-sum%m)%m], nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
