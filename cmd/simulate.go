package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/theapemachine/cpf-explainer/pkg/simulator"
)

var (
	profileFlags    = simulator.DefaultProfile()
	spendingFlag    map[string]string
	expenditureFlag string
	showProjectFlag bool

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Check whether a retirement plan is sustainable",
		Long:  longSimulate,
		RunE: func(cmd *cobra.Command, args []string) error {
			for category, raw := range spendingFlag {
				amount, err := cast.ToFloat64E(raw)

				if err != nil {
					return fmt.Errorf("invalid spending for %s: %w", category, err)
				}

				profileFlags.Spending[category] = amount
			}

			if err := profileFlags.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			plan := simulator.Sustainability(profileFlags)

			fmt.Fprintf(out, "%s\n\n", plan.Message)
			fmt.Fprintf(out, "Years until retirement:         %d\n", plan.YearsUntilRetirement)
			fmt.Fprintf(out, "Years of retirement:            %d\n", plan.YearsOfRetirement)
			fmt.Fprintf(out, "Annual CPF contributions:       %.2f\n", plan.AnnualCPFContributions)
			fmt.Fprintf(out, "Total savings at retirement:    %.2f\n", plan.TotalSavingsAtRetirement)
			fmt.Fprintf(out, "Total post-retirement expenses: %.2f\n", plan.TotalPostRetirementExpenses)

			projection := simulator.Project(profileFlags, plan)

			if age := simulator.Depletion(projection); age > 0 {
				fmt.Fprintf(out, "Savings run out at age:         %d\n", age)
			}

			if showProjectFlag {
				fmt.Fprintln(out)

				for _, point := range projection {
					fmt.Fprintf(out, "%3d  %14.2f\n", point.Age, point.Balance)
				}
			}

			path := expenditureFlag

			if path == "" {
				path = cfg.Simulator.Expenditure
			}

			if path == "" {
				return nil
			}

			table, err := simulator.LoadExpenditure(path)

			if err != nil {
				return err
			}

			comparison := simulator.Compare(profileFlags, table)
			categories := make([]string, 0, len(comparison))

			for category := range comparison {
				categories = append(categories, category)
			}

			sort.Strings(categories)
			fmt.Fprintln(out)

			for _, category := range categories {
				c := comparison[category]
				fmt.Fprintf(
					out, "%-14s %10.2f  closest to %s (%.2f)\n",
					category, c.UserSpending, c.ClosestQuintile, c.SpendingForQuintile,
				)
			}

			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	flags := simulateCmd.Flags()
	flags.IntVar(&profileFlags.Age, "age", profileFlags.Age, "Current age")
	flags.IntVar(&profileFlags.RetirementAge, "retirement-age", profileFlags.RetirementAge, "Planned retirement age")
	flags.IntVar(&profileFlags.LifeExpectancy, "life-expectancy", profileFlags.LifeExpectancy, "Expected lifespan")
	flags.Float64Var(&profileFlags.Income, "income", profileFlags.Income, "Annual income in SGD")
	flags.Float64Var(&profileFlags.Savings, "savings", profileFlags.Savings, "Current personal savings in SGD")
	flags.Float64Var(&profileFlags.CPFSavings, "cpf-savings", profileFlags.CPFSavings, "Current CPF savings in SGD")
	flags.Float64Var(&profileFlags.CPFContributionRate, "cpf-rate", profileFlags.CPFContributionRate, "CPF contribution rate in percent")
	flags.Float64Var(&profileFlags.GrowthRate, "growth-rate", profileFlags.GrowthRate, "Annual growth rate in percent")
	flags.Float64Var(
		&profileFlags.PostRetirementExpenses, "monthly-expenses",
		profileFlags.PostRetirementExpenses, "Monthly expenses after retirement in SGD",
	)
	flags.StringToStringVar(&spendingFlag, "spending", nil, "Monthly spending by category, e.g. food=600,transport=200")
	flags.StringVar(&expenditureFlag, "expenditure", "", "Household expenditure workbook (.xlsx) to compare spending against")
	flags.BoolVar(&showProjectFlag, "projection", false, "Print the year by year balance")
}

var longSimulate = `
Run the retirement simulator: compound savings and CPF contributions until
retirement, compare with post-retirement expenses, and optionally place
monthly spending against the household expenditure survey.

Examples:
  cpf-explainer simulate --age 40 --income 72000 --monthly-expenses 2500
  cpf-explainer simulate --expenditure HES2023.xlsx --projection
`
