package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/polyarb/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// FormatTable imprime la tabla completa; FormatCompact una línea por ciclo.
const (
	FormatTable   = "table"
	FormatCompact = "compact"
)

// Console implementa ports.Notifier escribiendo a un io.Writer.
type Console struct {
	out    io.Writer
	format string
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(format string) *Console {
	return &Console{out: os.Stdout, format: format}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, format string) *Console {
	return &Console{out: w, format: format}
}

// Notify imprime las oportunidades en el modo configurado.
func (c *Console) Notify(_ context.Context, opportunities []domain.Opportunity) error {
	if len(opportunities) == 0 {
		fmt.Fprintf(c.out, "[%s] no arbitrage opportunities found\n", time.Now().Format("15:04:05"))
		return nil
	}

	if c.format == FormatCompact {
		c.printCompact(opportunities)
	} else {
		c.printFull(opportunities)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(opps []domain.Opportunity) {
	now := time.Now().Format("15:04:05")
	buys, sells, multis := countByKind(opps)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d arbs → buy:%d sell:%d multi:%d | best %.2f%%",
		now, len(opps), buys, sells, multis, opps[0].ProfitPct*100)

	for i, opp := range opps {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&sb, " | %s %s %.2f%% $%.2f",
			opp.Kind, compactName(opp.Question, 25), opp.ProfitPct*100, opp.MaxProfitUSD)
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla con todas las métricas.
func (c *Console) printFull(opps []domain.Opportunity) {
	now := time.Now().Format("15:04:05")
	buys, sells, multis := countByKind(opps)

	fmt.Fprintf(c.out, "\n[%s] %d opportunities — buy:%d sell:%d multi:%d\n",
		now, len(opps), buys, sells, multis)

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Market", "Type", "Profit%", "Prices", "Max Size", "Max Profit")

	for i, opp := range opps {
		table.Append(
			fmt.Sprintf("%d", i+1),
			domain.TruncateQuestion(opp.Question, "", 38),
			string(opp.Kind),
			fmt.Sprintf("%.2f%%", opp.ProfitPct*100),
			priceLabel(opp),
			fmt.Sprintf("%.2f", opp.MaxSize),
			fmt.Sprintf("$%.2f", opp.MaxProfitUSD),
		)
	}

	table.Render()
	c.printSummary(opps)
}

// printSummary imprime el resumen y los detalles de los top 3.
func (c *Console) printSummary(opps []domain.Opportunity) {
	top := opps
	if len(top) > 3 {
		top = opps[:3]
	}

	for i, opp := range top {
		fmt.Fprintf(c.out, "  #%d %s\n", i+1, opp.Details)
		if opp.EventSlug != "" {
			fmt.Fprintf(c.out, "     URL: https://polymarket.com/event/%s\n", opp.EventSlug)
		}
	}

	fmt.Fprintf(c.out, "\n  Total: %d opportunities | best profit: %.2f%% | best max profit: $%.2f\n\n",
		len(opps), opps[0].ProfitPct*100, maxProfitUSD(opps))
}

// --- helpers ---

func priceLabel(opp domain.Opportunity) string {
	if opp.Kind == domain.ArbMulti {
		return fmt.Sprintf("sum=%.4f", opp.AggregatePrice)
	}
	return fmt.Sprintf("Y=%.4f N=%.4f", opp.YesPrice, opp.NoPrice)
}

func countByKind(opps []domain.Opportunity) (buys, sells, multis int) {
	for _, o := range opps {
		switch o.Kind {
		case domain.ArbBuy:
			buys++
		case domain.ArbSell:
			sells++
		case domain.ArbMulti:
			multis++
		}
	}
	return
}

func maxProfitUSD(opps []domain.Opportunity) float64 {
	best := 0.0
	for _, o := range opps {
		if o.MaxProfitUSD > best {
			best = o.MaxProfitUSD
		}
	}
	return best
}

func compactName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := s[:maxLen]
	if idx := strings.LastIndex(cut, " "); idx > maxLen/2 {
		cut = cut[:idx]
	}
	return cut + "…"
}
