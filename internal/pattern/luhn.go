package pattern

// LuhnValid reports whether a numeric string passes the digit-doubling
// checksum: walking from the rightmost digit, odd-position digits are summed
// as-is, even-position digits are doubled with a doubled value above 9
// reduced by summing its own digits. Valid means total % 10 == 0.
//
// SIRET numbers are checksum-protected this way; a 14-digit run that fails
// the check is not a SIRET.
func LuhnValid(number string) bool {
	if number == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	return sum%10 == 0
}
