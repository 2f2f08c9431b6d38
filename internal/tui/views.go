package tui

import (
	"fmt"
	"strings"

	"github.com/jask/shopctl/internal/agent"
)

const logTail = 6

func (a *App) renderWelcome() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("shopctl"))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("supervises the shopping agent and shows its progress"))
	b.WriteString("\n\n")

	if len(a.recent) > 0 {
		b.WriteString(labelStyle.Render("Recent runs"))
		b.WriteString("\n")
		for _, r := range a.recent {
			ok := errorStyle.Render("fail")
			if r.Success {
				ok = successStyle.Render("ok")
			}
			b.WriteString(fmt.Sprintf("  %s  %-4s  %-12s  %8s  %s\n",
				faintStyle.Render(r.CreatedAt.Local().Format("Jan 02 15:04")),
				ok,
				decisionStyle(r.Decision).Render(r.Decision),
				agent.FormatCents(r.TotalCents),
				truncate(r.Requirements, 40)))
		}
		b.WriteString("\n")
	}

	b.WriteString(faintStyle.Render("[enter] New run  [q] Quit"))
	return b.String()
}

func (a *App) renderRunning() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Running"))
	b.WriteString("  " + a.spin.View())
	b.WriteString("\n\n")

	for i, s := range agent.Steps {
		switch {
		case i < a.stepIndex:
			b.WriteString(stepDone.Render("  ✓ " + s.Label))
		case i == a.stepIndex:
			b.WriteString(stepCurrent.Render("  ▸ " + s.Label))
		default:
			b.WriteString(stepPending.Render("    " + s.Label))
		}
		b.WriteString("\n")
	}

	if a.detail != "" {
		b.WriteString("\n" + labelStyle.Render(a.detail) + "\n")
	}

	if n := len(a.logLines); n > 0 {
		b.WriteString("\n")
		start := n - logTail
		if start < 0 {
			start = 0
		}
		for _, l := range a.logLines[start:] {
			b.WriteString(faintStyle.Render("  "+truncate(l, 76)) + "\n")
		}
	}
	return b.String()
}

func (a *App) renderResults() string {
	out := a.output
	var b strings.Builder
	b.WriteString(titleStyle.Render("Results"))
	b.WriteString("  ")
	b.WriteString(decisionStyle(out.Validation.Decision).Render(out.Validation.Decision))
	b.WriteString("\n\n")

	if len(out.Cart.Items) > 0 {
		b.WriteString(labelStyle.Render("Cart"))
		b.WriteString("\n")
		for _, it := range out.Cart.Items {
			b.WriteString(fmt.Sprintf("  %dx %-40s %10s\n",
				it.Quantity, truncate(it.Title, 40), agent.FormatCents(it.PriceCents)))
		}
		b.WriteString("\n")
	}

	t := out.Cart.Totals
	b.WriteString(fmt.Sprintf("  %-12s %10s\n", "Subtotal", agent.FormatCents(t.SubtotalCents)))
	if t.TaxCents != nil {
		b.WriteString(fmt.Sprintf("  %-12s %10s\n", "Tax", agent.FormatCents(*t.TaxCents)))
	}
	if t.ShippingCents != nil {
		b.WriteString(fmt.Sprintf("  %-12s %10s\n", "Shipping", agent.FormatCents(*t.ShippingCents)))
	}
	b.WriteString(fmt.Sprintf("  %-12s %10s\n", "Total", agent.FormatCents(t.TotalCents)))
	if !agent.TotalsConsistent(t) {
		b.WriteString("  " + warnStyle.Render("totals do not add up") + "\n")
	}

	if pr := out.Cart.PaymentResult; pr != nil {
		b.WriteString("\n" + labelStyle.Render("Payment") + "\n")
		if pr.Success {
			b.WriteString("  " + successStyle.Render("paid"))
			if pr.ConfirmationNumber != "" {
				b.WriteString("  confirmation " + pr.ConfirmationNumber)
			}
			b.WriteString("\n")
			if pr.ReceiptURL != "" {
				b.WriteString("  " + faintStyle.Render(pr.ReceiptURL) + "\n")
			}
		} else {
			b.WriteString("  " + errorStyle.Render("failed"))
			if pr.ErrorMessage != "" {
				b.WriteString("  " + pr.ErrorMessage)
			}
			b.WriteString("\n")
		}
	}

	if len(out.Validation.Flags) > 0 {
		b.WriteString("\n" + labelStyle.Render("Flags") + "\n")
		for _, f := range out.Validation.Flags {
			b.WriteString("  " + warnStyle.Render(f) + "\n")
		}
	}
	if out.Validation.Reasoning != "" {
		b.WriteString("\n" + faintStyle.Render(truncate(out.Validation.Reasoning, 200)) + "\n")
	}

	b.WriteString("\n" + faintStyle.Render("[r] New run  [q] Quit"))
	return b.String()
}

func (a *App) renderError() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("Run failed"))
	b.WriteString("\n\n")
	b.WriteString("  " + a.runErr + "\n")
	b.WriteString("\n" + faintStyle.Render("[r] New run  [q] Quit"))
	return b.String()
}

// truncate cuts on rune boundaries; log lines and product titles are not
// ASCII-guaranteed.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
