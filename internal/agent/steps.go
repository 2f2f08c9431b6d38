package agent

import (
	"regexp"
	"strings"
)

// Step is one milestone of the agent workflow. Patterns are lowercase
// substrings matched against the accumulated log text; the order of Steps is
// the expected progression of the external process.
type Step struct {
	ID       string
	Label    string
	patterns []string
}

// Steps is the fixed taxonomy, in workflow order. The markers come from the
// agent's banner lines (STEP 1..7) and its shopper/paytato log vocabulary;
// the agent exposes no structured progress protocol, so these are
// heuristics over free text.
var Steps = []Step{
	{ID: "plan", Label: "Creating shopping plan",
		patterns: []string{"step 1", "shopping plan"}},
	{ID: "browse", Label: "Browsing the store",
		patterns: []string{"step 2", "navigating", "products on store"}},
	{ID: "cart", Label: "Adding items to cart",
		patterns: []string{"found match", "clicked add", "looking for:"}},
	{ID: "extract", Label: "Extracting cart",
		patterns: []string{"cart total", "navigating to cart", "extracted cart"}},
	{ID: "validate", Label: "Validating cart against plan",
		patterns: []string{"step 3", "validation decision", "validating cart"}},
	{ID: "intent", Label: "Submitting payment intent",
		patterns: []string{"step 4", "payment intent"}},
	{ID: "approval", Label: "Waiting for approval",
		patterns: []string{"step 5", "polling", "wait_for_approval"}},
	{ID: "pay", Label: "Executing payment",
		patterns: []string{"step 6", "pausing 15 seconds", "executing payment", "submitting order"}},
	{ID: "finalize", Label: "Finalizing",
		patterns: []string{"step 7", "reporting payment result", "agent run complete"}},
}

// InferStep maps the accumulated log onto a step index in [0, len(Steps)-1].
// It scans the taxonomy from the last step down and returns the highest step
// whose patterns match anywhere in the concatenated history, else 0. It is a
// pure function of the full history, not incremental and not inherently
// monotonic: correctness rests on the agent never emitting a later phase's
// markers before the earlier phases ran. Callers that need a non-decreasing
// display clamp the result themselves.
func InferStep(lines []string) int {
	if len(lines) == 0 {
		return 0
	}
	joined := strings.ToLower(strings.Join(lines, "\n"))
	for i := len(Steps) - 1; i >= 0; i-- {
		for _, p := range Steps[i].patterns {
			if strings.Contains(joined, p) {
				return i
			}
		}
	}
	return 0
}

// logLineRe matches the agent's logging format, e.g.
// "14:03:22 [INFO] agent.shopper: Found match at index 2: USB-C Hub".
var logLineRe = regexp.MustCompile(`\[(?:INFO|DEBUG)\] [\w.]+: (.+)$`)

// DetailForLine extracts a short human-readable activity from one raw output
// line, or "" when the line carries nothing worth showing (banners, blank
// separators).
func DetailForLine(line string) string {
	if strings.Contains(line, "PAUSING 15 SECONDS") {
		return "Pausing before submitting payment"
	}
	if m := logLineRe.FindStringSubmatch(line); m != nil {
		msg := strings.TrimSpace(m[1])
		if isBanner(msg) {
			return ""
		}
		return msg
	}
	line = strings.TrimSpace(line)
	if line == "" || isBanner(line) {
		return ""
	}
	return line
}

func isBanner(s string) bool {
	return strings.Trim(s, "=") == ""
}
