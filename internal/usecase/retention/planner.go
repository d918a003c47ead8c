package retention

import (
	"sort"

	"cloud.google.com/go/civil"

	"github.com/bnema/wpbackup/internal/domain"
)

// Classify returns the verdict for a unit dated date, as seen on today.
//
// The tiers are disjoint age ranges checked in order; the first one whose
// range contains the age decides:
//
//	[0, daily)        keep-daily
//	[daily, weekly)   keep-weekly when the date is a Sunday
//	[weekly, monthly) keep-monthly when the date is the last day of its month
//
// Anything else, including every unit older than the monthly window, is
// deleted. Units dated after today count as daily.
func Classify(today, date civil.Date, policy domain.RetentionPolicy) domain.Verdict {
	age := domain.AgeInDays(today, date)

	switch {
	case age < policy.DailyWindowDays:
		return domain.VerdictKeepDaily
	case age < policy.WeeklyWindowDays:
		if domain.IsSunday(date) {
			return domain.VerdictKeepWeekly
		}
	case age < policy.MonthlyWindowDays:
		if domain.IsLastDayOfMonth(date) {
			return domain.VerdictKeepMonthly
		}
	}

	return domain.VerdictDelete
}

// Decide classifies every unit independently. The result follows the input order.
func Decide(today civil.Date, units []domain.BackupUnit, policy domain.RetentionPolicy) []domain.RetentionDecision {
	decisions := make([]domain.RetentionDecision, 0, len(units))
	for _, u := range units {
		decisions = append(decisions, domain.RetentionDecision{
			Unit:    u,
			Verdict: Classify(today, u.Date, policy),
		})
	}
	return decisions
}

// ParseCatalogue splits raw catalogue identifiers into dated units and
// entries whose name carries no date.
func ParseCatalogue(ids []string) ([]domain.BackupUnit, []domain.ParseFailure) {
	units := make([]domain.BackupUnit, 0, len(ids))
	var failures []domain.ParseFailure

	for _, id := range ids {
		unit, err := domain.ParseBackupUnit(id)
		if err != nil {
			failures = append(failures, domain.ParseFailure{ID: id, Err: err})
			continue
		}
		units = append(units, unit)
	}

	return units, failures
}

// BuildPlan parses ids and classifies them against today. Decisions are
// sorted newest first for display; classification does not depend on order.
func BuildPlan(today civil.Date, ids []string, policy domain.RetentionPolicy) *domain.RetentionPlan {
	units, failures := ParseCatalogue(ids)
	decisions := Decide(today, units, policy)

	sort.SliceStable(decisions, func(i, j int) bool {
		a, b := decisions[i].Unit, decisions[j].Unit
		if a.Date != b.Date {
			return a.Date.After(b.Date)
		}
		return a.ID < b.ID
	})

	return &domain.RetentionPlan{
		Today:         today,
		Decisions:     decisions,
		ParseFailures: failures,
	}
}
