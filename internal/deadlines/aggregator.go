// Package deadlines merges school and programme deadlines into a single
// chronological, month-grouped view.
package deadlines

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/utils"
)

type Kind string

const (
	KindSchool    Kind = "school"
	KindProgramme Kind = "programme"
)

// Item is one dated entry. Programme is nil for school-level deadlines.
type Item struct {
	Kind      Kind              `json:"kind"`
	School    models.School     `json:"school"`
	Programme *models.Programme `json:"programme,omitempty"`
	Date      time.Time         `json:"date"`
	// Raw is the source string Date was parsed from.
	Raw string `json:"raw"`
	// Zoned is false for calendar dates, which belong to their written month
	// in every timezone.
	Zoned bool `json:"-"`
}

// MonthGroup is every item that falls in one calendar month.
type MonthGroup struct {
	Label string `json:"label"`
	Items []Item `json:"items"`
}

// Source is the read side of the reference-data provider that Collect needs.
type Source interface {
	GetSchools(ctx context.Context) ([]models.School, error)
	GetProgrammesBySchool(ctx context.Context, schoolID string) ([]models.Programme, error)
}

// Aggregate emits one item per school and programme whose NextDeadline parses,
// then sorts them by date. Ties keep discovery order: a school ahead of its own
// programmes, otherwise input order. Unparseable or empty deadlines are skipped.
func Aggregate(schools []models.School, programmesBySchool map[string][]models.Programme) []Item {
	var items []Item
	for _, school := range schools {
		if date, zoned, ok := utils.ParseDeadlineZone(school.NextDeadline); ok {
			items = append(items, Item{Kind: KindSchool, School: school, Date: date, Raw: school.NextDeadline, Zoned: zoned})
		}
		for _, programme := range programmesBySchool[school.ID] {
			if date, zoned, ok := utils.ParseDeadlineZone(programme.NextDeadline); ok {
				p := programme
				items = append(items, Item{Kind: KindProgramme, School: school, Programme: &p, Date: date, Raw: programme.NextDeadline, Zoned: zoned})
			}
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.Before(items[j].Date)
	})
	return items
}

// GroupByMonth buckets sorted items under "Month Year" labels. Timestamps
// with an offset are labelled in loc (nil keeps their own zone); calendar
// dates keep the month they were written in. Groups appear in order of first
// appearance, which is chronological for sorted input.
func GroupByMonth(items []Item, loc *time.Location) []MonthGroup {
	var groups []MonthGroup
	index := make(map[string]int)
	for _, item := range items {
		itemLoc := loc
		if !item.Zoned {
			itemLoc = nil
		}
		label := utils.MonthLabel(item.Date, itemLoc)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, MonthGroup{Label: label})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// Upcoming drops items dated strictly before now.
func Upcoming(items []Item, now time.Time) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if !item.Date.Before(now) {
			out = append(out, item)
		}
	}
	return out
}

// Collect fetches every school and its programmes from src and aggregates them.
func Collect(ctx context.Context, src Source) ([]Item, error) {
	schools, err := src.GetSchools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get schools: %w", err)
	}

	programmes := make(map[string][]models.Programme, len(schools))
	for _, school := range schools {
		ps, err := src.GetProgrammesBySchool(ctx, school.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get programmes for %s: %w", school.ID, err)
		}
		programmes[school.ID] = ps
	}

	return Aggregate(schools, programmes), nil
}
