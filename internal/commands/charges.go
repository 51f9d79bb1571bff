package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pavecost/charges"
	"github.com/katalvlaran/pavecost/condition"
	"github.com/katalvlaran/pavecost/cost"
)

// ChargesCmd creates the charges command.
func ChargesCmd() *cobra.Command {
	var (
		flags     runFlags
		mixFlag   map[string]string
		opex      float64
		landing   float64
		passenger float64
	)

	cmd := &cobra.Command{
		Use:   "charges <project.yaml>",
		Short: "Derive airport charges and payback from an estimate",
		Long: `Runs the estimate, then computes the landing charge per tonne MTOW and
the passenger charge that recover the cost of capital, the resulting annual
revenue and the payback period of every simulated investment.

The aircraft mix lists the share of movements per code up to the critical
code and must add up to 100. Without --mix all movements use the critical code.

Examples:
  pavecost charges airport.yaml
  pavecost charges --mix C=70,D=30 --opex 2500000 airport.yaml
  pavecost charges --landing 12 --passenger 20 airport.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mix, err := parseMix(mixFlag)
			if err != nil {
				return err
			}
			ctx, stop := interruptible(cmd.Context())
			defer stop()

			s, err := openSession(ctx, args[0], flags)
			if err != nil {
				return err
			}
			if _, err := s.Run(ctx); err != nil {
				return fmt.Errorf("estimate %s: %w", args[0], err)
			}
			model, err := s.ChargeModel(mix)
			if err != nil {
				return err
			}

			c := model.DefaultCharges()
			if landing > 0 {
				c.Landing = landing
			}
			if passenger > 0 {
				c.Passenger = passenger
			}
			revenue, err := model.Revenue(c)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			title(w, "Charges")
			t := newTable(1, "Item", "Value")
			t.Row("WACC", strconv.FormatFloat(100*model.WACC, 'f', 2, 64)+" %")
			t.Row("Departing MTOW (t)", money(model.MTOWMovements))
			t.Row("Departing passengers", money(model.DepartingPax))
			t.Row("Landing charge (EUR/t)", strconv.FormatFloat(c.Landing, 'f', 2, 64))
			t.Row("Passenger charge (EUR)", strconv.FormatFloat(c.Passenger, 'f', 2, 64))
			t.Row("Annual revenue (EUR)", money(revenue))
			fmt.Fprintln(w, t.Render())

			payback, err := model.Payback(c, opex)
			if err != nil {
				return err
			}
			sum := cost.Summarize(payback)
			title(w, "Payback period (years)")
			pt := newTable(0, "Mean", "P5", "P50", "P95")
			pt.Row(years(sum.Mean), years(sum.P5), years(sum.P50), years(sum.P95))
			fmt.Fprintln(w, pt.Render())

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringToStringVar(&mixFlag, "mix", nil, "Aircraft mix in percent per code, e.g. C=70,D=30")
	cmd.Flags().Float64Var(&opex, "opex", 0, "Annual operating expenditure in EUR")
	cmd.Flags().Float64Var(&landing, "landing", 0, "Landing charge per tonne MTOW (default: cost-recovering)")
	cmd.Flags().Float64Var(&passenger, "passenger", 0, "Charge per departing passenger (default: cost-recovering)")

	return cmd
}

func parseMix(raw map[string]string) (charges.Mix, error) {
	mix := make(charges.Mix, len(raw))
	for k, v := range raw {
		code := condition.ParseACCode(k)
		if code == condition.CodeUnknown {
			return nil, fmt.Errorf("mix: unknown aircraft code %q", k)
		}
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("mix: %s=%q: %w", k, v, err)
		}
		mix[code] += pct
	}

	return mix, nil
}

func years(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
