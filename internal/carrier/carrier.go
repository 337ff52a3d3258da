package carrier

import "strings"

const (
	Unknown = "UNKNOWN"
	UPS     = "UPS"
	FedEx   = "FEDEX"
	USPS    = "USPS"
	DHL     = "DHL"
	Generic = "CARRIER"
)

// Detect guesses the carrier from the tracking number pattern. The rules are
// checked in order and the first match wins; the FEDEX length check runs
// before the DHL one, so some all-digit numbers classify as FEDEX even when
// a DHL reading would also fit. That ordering is deliberate and must not be
// rearranged.
func Detect(trackingNumber string) string {
	if trackingNumber == "" {
		return Unknown
	}
	tn := strings.ToUpper(trackingNumber)
	if strings.HasPrefix(tn, "1Z") {
		return UPS
	}
	if len(tn) >= 12 && allDigits(tn) {
		return FedEx
	}
	if (len(tn) >= 16 && tn[0] == '9' && allDigits(tn)) ||
		(len(tn) == 13 && allAlpha(tn[:2]) && tn[len(tn)-2:] == "US") {
		return USPS
	}
	if (len(tn) == 10 || len(tn) == 11) && allDigits(tn) {
		return DHL
	}
	return Generic
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func allAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
