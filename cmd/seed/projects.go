package main

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nordvest/backend/internal/application/project/dto"
	"github.com/nordvest/backend/internal/domain/project"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleNO = cases.Title(language.Norwegian)

	projectTypes = []string{"bad", "kjøkken", "garderobe", "loft", "kjeller", "tilbygg", "næringslokale"}
	cities       = []string{"Ålesund", "Molde", "Kristiansund", "Bergen", "Førde", "Volda", "Ørsta"}
	budgets      = []string{"under 100 000", "100 000 - 300 000", "300 000 - 700 000", "over 700 000"}
	requirements = []string{"universell utforming", "lavt energiforbruk", "gjenbruk av materialer",
		"svanemerket", "rask ferdigstillelse", "støydemping"}
)

// projectFaker produces plausible renovation projects
type projectFaker struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

func newProjectFaker(seed uint64) *projectFaker {
	return &projectFaker{faker: gofakeit.New(seed), now: time.Now}
}

func (p *projectFaker) next() dto.CreateProjectRequest {
	f := p.faker
	kind := f.RandomString(projectTypes)
	city := f.RandomString(cities)

	area := float64(f.Number(8, 400))
	cost := decimal.NewFromInt(int64(area) * int64(f.Number(6000, 25000))).Round(-3)
	target := f.DateRange(p.now().AddDate(0, 2, 0), p.now().AddDate(2, 0, 0)).UTC().Truncate(24 * time.Hour)

	reqs := make([]string, 0, 2)
	for i := f.Number(0, 2); i > 0; i-- {
		reqs = append(reqs, f.RandomString(requirements))
	}

	statuses := make([]string, len(project.Statuses))
	for i, s := range project.Statuses {
		statuses[i] = string(s)
	}

	return dto.CreateProjectRequest{
		Name:                 fmt.Sprintf("%s i %s, %s", titleNO.String(kind), f.Street(), city),
		Description:          f.Sentence(12),
		Status:               f.RandomString(statuses),
		EstimatedCost:        &cost,
		Location:             city,
		ProjectType:          kind,
		SquareMeters:         &area,
		BudgetRange:          f.RandomString(budgets),
		TargetCompletionDate: &target,
		SpecialRequirements:  reqs,
		Metadata:             map[string]any{"source": "seed"},
	}
}
