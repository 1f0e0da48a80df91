package simulator

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

const headerRows = 9

/*
Quintiles names the five income groups of the household expenditure survey,
lowest first.
*/
var Quintiles = [5]string{
	"Bottom 20% of Households",
	"Lower Middle 20% of Households",
	"Middle 20% of Households",
	"Upper Middle 20% of Households",
	"Top 20% of Households",
}

/*
Categories maps a simulator spending category onto the survey rows it is
compared with. Food spans two rows, which are summed.
*/
var Categories = map[string][]string{
	"food":          {"FOOD AND NON-ALCOHOLIC BEVERAGES", "FOOD SERVING SERVICES"},
	"transport":     {"TRANSPORT"},
	"travel":        {"RECREATION AND CULTURE"},
	"housing":       {"Imputed Rental for Owner-Occupied Accommodation"},
	"utilities":     {"HOUSING AND UTILITIES"},
	"healthcare":    {"HEALTH"},
	"education":     {"EDUCATION"},
	"personal_care": {"PERSONAL CARE"},
	"communication": {"COMMUNICATION"},
	"clothing":      {"CLOTHING AND FOOTWEAR"},
}

/*
ExpenditureRow is one line of the survey: a type of goods or services, the
all-household figure and one figure per income quintile.
*/
type ExpenditureRow struct {
	Type      string     `json:"type"`
	Total     float64    `json:"total"`
	Quintiles [5]float64 `json:"quintiles"`
}

/*
ExpenditureTable is the cleaned survey, keyed by type.
*/
type ExpenditureTable map[string]ExpenditureRow

/*
LoadExpenditure reads the first sheet of the survey workbook. The first nine
rows are preamble and the tenth a header; rows without a type or with any
non-numeric figure are dropped.
*/
func LoadExpenditure(path string) (ExpenditureTable, error) {
	f, err := excelize.OpenFile(path)

	if err != nil {
		return nil, fmt.Errorf("failed to open expenditure workbook: %w", err)
	}

	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))

	if err != nil {
		return nil, fmt.Errorf("failed to read expenditure sheet: %w", err)
	}

	table := ExpenditureTable{}

	if len(rows) <= headerRows+1 {
		return table, nil
	}

	for _, cells := range rows[headerRows+1:] {
		row, ok := parseExpenditureRow(cells)

		if ok {
			table[row.Type] = row
		}
	}

	return table, nil
}

func parseExpenditureRow(cells []string) (ExpenditureRow, bool) {
	if len(cells) < 7 || strings.TrimSpace(cells[0]) == "" {
		return ExpenditureRow{}, false
	}

	values := make([]float64, 6)

	for i := range values {
		value, err := cast.ToFloat64E(strings.ReplaceAll(strings.TrimSpace(cells[i+1]), ",", ""))

		if err != nil || cells[i+1] == "" {
			return ExpenditureRow{}, false
		}

		values[i] = value
	}

	row := ExpenditureRow{Type: strings.TrimSpace(cells[0]), Total: values[0]}
	copy(row.Quintiles[:], values[1:])

	return row, true
}

/*
Comparison places one spending category against the survey.
*/
type Comparison struct {
	UserSpending        float64 `json:"user_spending"`
	ClosestQuintile     string  `json:"closest_income_quintile"`
	SpendingForQuintile float64 `json:"spending_for_quintile"`
}

/*
Compare finds, for every category present in the table, the income quintile
whose spending is closest to the profile's. Categories missing from the
table are left out. Ties go to the lower quintile.
*/
func Compare(profile Profile, table ExpenditureTable) map[string]Comparison {
	results := map[string]Comparison{}

	for category, types := range Categories {
		var (
			sums  [5]float64
			found bool
		)

		for _, name := range types {
			row, ok := table[name]

			if !ok {
				continue
			}

			found = true

			for i, value := range row.Quintiles {
				sums[i] += value
			}
		}

		if !found {
			continue
		}

		spending := profile.Spending[category]
		closest := 0

		for i := range sums {
			if math.Abs(sums[i]-spending) < math.Abs(sums[closest]-spending) {
				closest = i
			}
		}

		results[category] = Comparison{
			UserSpending:        spending,
			ClosestQuintile:     Quintiles[closest],
			SpendingForQuintile: sums[closest],
		}
	}

	return results
}
