package simulator

import "math"

const (
	Sustainable    = "Sustainable"
	NotSustainable = "Not Sustainable"
)

/*
Plan is the sustainability verdict for a profile.
*/
type Plan struct {
	Status                      string  `json:"status"`
	YearsUntilRetirement        int     `json:"years_until_retirement"`
	YearsOfRetirement           int     `json:"years_of_retirement"`
	AnnualCPFContributions      float64 `json:"annual_cpf_contributions"`
	TotalContributions          float64 `json:"total_contributions"`
	TotalSavingsAtRetirement    float64 `json:"total_savings_at_retirement"`
	TotalPostRetirementExpenses float64 `json:"total_post_retirement_expenses"`
	MonthlyWithdrawal           float64 `json:"monthly_withdrawal"`
	Message                     string  `json:"message"`
}

/*
Sustainability compounds current savings, CPF savings and all future CPF
contributions at the growth rate until retirement, and compares the total
with the expenses of the retirement years.
*/
func Sustainability(profile Profile) Plan {
	growth := profile.GrowthRate / 100
	yearsUntil := profile.RetirementAge - profile.Age
	yearsOf := profile.LifeExpectancy - profile.RetirementAge
	annual := profile.Income * profile.CPFContributionRate / 100
	contributions := annual * float64(yearsUntil)

	total := (profile.Savings + profile.CPFSavings + contributions) *
		math.Pow(1+growth, float64(yearsUntil))
	expenses := profile.PostRetirementExpenses * 12 * float64(yearsOf)

	plan := Plan{
		YearsUntilRetirement:        yearsUntil,
		YearsOfRetirement:           yearsOf,
		AnnualCPFContributions:      annual,
		TotalContributions:          contributions,
		TotalSavingsAtRetirement:    total,
		TotalPostRetirementExpenses: expenses,
		MonthlyWithdrawal:           profile.PostRetirementExpenses,
	}

	if total >= expenses {
		plan.Status = Sustainable
		plan.Message = "Your retirement plan is sustainable. You have enough savings to cover your expenses."
	} else {
		plan.Status = NotSustainable
		plan.Message = "Your retirement plan is not sustainable. You may run out of savings before your estimated lifespan."
	}

	return plan
}

/*
Point is the combined CPF and personal balance at a given age.
*/
type Point struct {
	Age     int     `json:"age"`
	Balance float64 `json:"balance"`
	Retired bool    `json:"retired"`
}

/*
Project walks the balance year by year: before retirement the contribution
is added to CPF and both pots grow; after it the yearly withdrawal is taken
and the balance floors at zero.
*/
func Project(profile Profile, plan Plan) []Point {
	growth := 1 + profile.GrowthRate/100
	savings := profile.Savings
	cpf := profile.CPFSavings

	points := []Point{{Age: profile.Age, Balance: savings + cpf}}

	for year := 1; year <= plan.YearsUntilRetirement; year++ {
		cpf += plan.AnnualCPFContributions
		cpf *= growth
		savings *= growth
		points = append(points, Point{Age: profile.Age + year, Balance: savings + cpf})
	}

	balance := savings + cpf

	for year := 1; year <= plan.YearsOfRetirement; year++ {
		balance = math.Max(balance-plan.MonthlyWithdrawal*12, 0)
		points = append(points, Point{
			Age:     profile.RetirementAge + year,
			Balance: balance,
			Retired: true,
		})
	}

	return points
}

/*
Depletion returns the first age at which the projected balance reaches zero,
or 0 if it never does.
*/
func Depletion(points []Point) int {
	for _, point := range points {
		if point.Retired && point.Balance == 0 {
			return point.Age
		}
	}

	return 0
}
