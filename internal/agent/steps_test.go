package agent

import "testing"

func TestInferStepEmpty(t *testing.T) {
	if got := InferStep(nil); got != 0 {
		t.Fatalf("InferStep(nil) = %d, want 0", got)
	}
	if got := InferStep([]string{}); got != 0 {
		t.Fatalf("InferStep(empty) = %d, want 0", got)
	}
}

func TestInferStepHighestMatchWins(t *testing.T) {
	cases := []struct {
		name  string
		lines []string
		want  int
	}{
		{"no markers", []string{"hello", "world"}, 0},
		{"plan banner", []string{"12:00:00 [INFO] agent.main: STEP 1: Converting requirements to shopping plan..."}, 0},
		{"browsing", []string{
			"STEP 1: Converting requirements to shopping plan...",
			"12:00:01 [INFO] agent.shopper: Navigating to https://joy-buy-test.lovable.app",
		}, 1},
		{"adding to cart", []string{
			"Navigating to https://joy-buy-test.lovable.app",
			"Found match at index 0: Wireless Mouse",
			"Clicked Add for: Wireless Mouse",
		}, 2},
		{"cart extracted", []string{
			"Found match at index 0: Wireless Mouse",
			"Cart total: $29.99",
		}, 3},
		{"validating", []string{
			"Cart total: $29.99",
			"STEP 3: Validating cart against plan...",
			"Validation decision: ACCEPT",
		}, 4},
		{"payment intent", []string{"STEP 4: Submitting payment intent to Paytato..."}, 5},
		{"approval poll", []string{"STEP 5: Polling Paytato for credentials..."}, 6},
		{"payment pause", []string{"PAUSING 15 SECONDS BEFORE SUBMITTING PAYMENT..."}, 7},
		{"finalizing", []string{"STEP 7: Reporting payment result to Paytato..."}, 8},
		{"case insensitive", []string{"step 6: executing payment..."}, 7},
		{"earlier marker reappearing keeps the later step", []string{
			"STEP 5: Polling Paytato for credentials...",
			"Navigating to https://joy-buy-test.lovable.app",
		}, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InferStep(tc.lines); got != tc.want {
				t.Fatalf("InferStep(%q) = %d, want %d", tc.lines, got, tc.want)
			}
			// Pure function of its input: a second call agrees.
			if again := InferStep(tc.lines); again != tc.want {
				t.Fatalf("second InferStep call = %d, want %d", again, tc.want)
			}
		})
	}
}

func TestDetailForLine(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"12:00:00 [INFO] agent.main: Created plan with 2 items", "Created plan with 2 items"},
		{"12:00:00 [DEBUG] agent.shopper: Strategy 1 failed", "Strategy 1 failed"},
		{"12:00:00 [INFO] agent.main: ==================================================", ""},
		{"==================================================", ""},
		{"", ""},
		{"12:00:00 [INFO] agent.main: PAUSING 15 SECONDS BEFORE SUBMITTING PAYMENT...", "Pausing before submitting payment"},
		{"plain unformatted line", "plain unformatted line"},
	}
	for _, tc := range cases {
		if got := DetailForLine(tc.line); got != tc.want {
			t.Errorf("DetailForLine(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}
}
