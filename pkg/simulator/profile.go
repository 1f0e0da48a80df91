// Package simulator is the rule based retirement adequacy calculator that
// sits next to the policy explainer.
package simulator

import (
	"github.com/cohesivestack/valgo"
)

/*
Profile is everything the simulator needs about a person. Rates are in
percent, as entered. Spending is keyed by category (see Categories), in SGD.
*/
type Profile struct {
	Age                    int                `json:"age"`
	RetirementAge          int                `json:"retirement_age"`
	LifeExpectancy         int                `json:"life_expectancy"`
	Income                 float64            `json:"income"`
	Savings                float64            `json:"savings"`
	CPFSavings             float64            `json:"cpf_savings"`
	CPFContributionRate    float64            `json:"cpf_contribution_rate"`
	GrowthRate             float64            `json:"growth_rate"`
	PostRetirementExpenses float64            `json:"post_retirement_expenses"`
	Spending               map[string]float64 `json:"spending,omitempty"`
}

/*
DefaultProfile is a typical mid-career starting point.
*/
func DefaultProfile() Profile {
	return Profile{
		Age:                    35,
		RetirementAge:          65,
		LifeExpectancy:         85,
		Income:                 50000,
		Savings:                10000,
		CPFSavings:             100000,
		CPFContributionRate:    37,
		GrowthRate:             3,
		PostRetirementExpenses: 2000,
		Spending: map[string]float64{
			"transport":     150,
			"food":          500,
			"travel":        3000,
			"housing":       1500,
			"utilities":     200,
			"healthcare":    300,
			"education":     2000,
			"personal_care": 100,
			"communication": 80,
			"clothing":      600,
		},
	}
}

/*
Validate checks every field against its allowed range.
*/
func (profile Profile) Validate() error {
	val := valgo.Is(
		valgo.Number(profile.Age, "age").Between(20, 100),
	).Is(
		valgo.Number(profile.RetirementAge, "retirement_age").Between(55, 70).GreaterOrEqualTo(profile.Age),
	).Is(
		valgo.Number(profile.LifeExpectancy, "life_expectancy").Between(70, 100).GreaterOrEqualTo(profile.RetirementAge),
	).Is(
		valgo.Number(profile.Income, "income").GreaterOrEqualTo(0),
	).Is(
		valgo.Number(profile.Savings, "savings").GreaterOrEqualTo(0),
	).Is(
		valgo.Number(profile.CPFSavings, "cpf_savings").GreaterOrEqualTo(0),
	).Is(
		valgo.Number(profile.CPFContributionRate, "cpf_contribution_rate").Between(0, 37),
	).Is(
		valgo.Number(profile.GrowthRate, "growth_rate").Between(0, 10),
	).Is(
		valgo.Number(profile.PostRetirementExpenses, "post_retirement_expenses").GreaterOrEqualTo(0),
	)

	for category, amount := range profile.Spending {
		val.Is(valgo.Number(amount, "spending."+category).GreaterOrEqualTo(0))
	}

	if !val.Valid() {
		return val.Error()
	}

	return nil
}
