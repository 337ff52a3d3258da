package carrier

import "testing"

func TestDetect_KnownPatterns(t *testing.T) {
	cases := []struct {
		trackingNumber string
		want           string
	}{
		{"", Unknown},
		{"1Z999AA10123456784", UPS},
		{"1z999aa10123456784", UPS},
		{"123456789012", FedEx},
		{"EA123456785US", USPS},
		{"1234567890", DHL},
		{"12345678901", DHL},
		{"ABC-NOT-A-NUMBER", Generic},
	}
	for _, tc := range cases {
		if got := Detect(tc.trackingNumber); got != tc.want {
			t.Fatalf("Detect(%q) = %q, want %q", tc.trackingNumber, got, tc.want)
		}
	}
}

func TestDetect_RuleOrderIsFirstMatchWins(t *testing.T) {
	// Any all-digit number of 12+ characters hits the FEDEX rule before the
	// USPS leading-9 rule can see it. The misclassification is inherited on
	// purpose; rearranging the rules would change stored carriers.
	if got := Detect("9400111899223344556"); got != FedEx {
		t.Fatalf("expected FEDEX for 19-digit leading-9 number, got %q", got)
	}
	// USPS is reachable via the alpha-prefix 13-char form only.
	if got := Detect("EA123456785US"); got != USPS {
		t.Fatalf("expected USPS, got %q", got)
	}
	// 10 digits fails the FEDEX >=12 check and falls through to DHL.
	if got := Detect("1234567890"); got != DHL {
		t.Fatalf("expected DHL for 10 digits, got %q", got)
	}
}
