package deadlines

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/utils"
)

func TestAggregate_SkipsInvalidDates(t *testing.T) {
	schools := []models.School{
		{ID: "unilag", Name: "University of Lagos", NextDeadline: "2025-03-01"},
		{ID: "ui", Name: "University of Ibadan", NextDeadline: ""},
	}

	items := Aggregate(schools, nil)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Kind != KindSchool || items[0].School.ID != "unilag" {
		t.Errorf("unexpected item %+v", items[0])
	}
}

func TestAggregate_ProgrammesParsedIndependently(t *testing.T) {
	schools := []models.School{{ID: "s1", NextDeadline: "garbage"}}
	programmes := map[string][]models.Programme{
		"s1": {
			{ID: "p1", SchoolID: "s1", NextDeadline: "2025-05-01"},
			{ID: "p2", SchoolID: "s1", NextDeadline: "TBA"},
		},
	}

	items := Aggregate(schools, programmes)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	item := items[0]
	if item.Kind != KindProgramme || item.Programme == nil || item.Programme.ID != "p1" {
		t.Errorf("unexpected item %+v", item)
	}
	if item.School.ID != "s1" {
		t.Errorf("programme item lost its school: %+v", item.School)
	}
}

func TestAggregate_SortedWithStableTies(t *testing.T) {
	schools := []models.School{
		{ID: "a", NextDeadline: "2025-06-01"},
		{ID: "b", NextDeadline: "2025-01-15"},
	}
	programmes := map[string][]models.Programme{
		"a": {{ID: "a1", NextDeadline: "2025-06-01"}, {ID: "a2", NextDeadline: "2025-01-15"}},
		"b": {{ID: "b1", NextDeadline: "2025-06-01"}},
	}

	items := Aggregate(schools, programmes)

	var got []string
	for _, it := range items {
		if it.Programme != nil {
			got = append(got, it.Programme.ID)
		} else {
			got = append(got, it.School.ID)
		}
	}
	// a2 was discovered before b; a before a1 before b1.
	want := []string{"a2", "b", "a", "a1", "b1"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	for i := 1; i < len(items); i++ {
		if items[i].Date.Before(items[i-1].Date) {
			t.Fatalf("items not sorted at %d", i)
		}
	}
}

func TestAggregate_RawRoundTrips(t *testing.T) {
	schools := []models.School{
		{ID: "a", NextDeadline: "March 3, 2025"},
		{ID: "b", NextDeadline: "2025-02-01T10:00:00+01:00"},
		{ID: "c", NextDeadline: "2025-04-09"},
	}
	for _, item := range Aggregate(schools, nil) {
		again, ok := utils.ParseDeadline(item.Raw)
		if !ok || !again.Equal(item.Date) {
			t.Errorf("raw %q re-parsed to %v, want %v", item.Raw, again, item.Date)
		}
	}
}

func TestGroupByMonth_ChronologicalNotAlphabetical(t *testing.T) {
	schools := []models.School{
		{ID: "a", NextDeadline: "2025-03-20"},
		{ID: "b", NextDeadline: "2025-01-05"},
		{ID: "c", NextDeadline: "2025-03-02"},
		{ID: "d", NextDeadline: "2024-12-31"},
	}

	groups := GroupByMonth(Aggregate(schools, nil), nil)

	wantLabels := []string{"December 2024", "January 2025", "March 2025"}
	if len(groups) != len(wantLabels) {
		t.Fatalf("got %d groups, want %d", len(groups), len(wantLabels))
	}
	for i, label := range wantLabels {
		if groups[i].Label != label {
			t.Errorf("group %d = %q, want %q", i, groups[i].Label, label)
		}
	}
	if n := len(groups[2].Items); n != 2 {
		t.Errorf("March group has %d items, want 2", n)
	}
	if groups[2].Items[0].School.ID != "c" {
		t.Errorf("March group not sorted: first is %s", groups[2].Items[0].School.ID)
	}
}

func TestGroupByMonth_CalendarDatesKeepTheirMonth(t *testing.T) {
	schools := []models.School{
		{ID: "first", NextDeadline: "2025-03-01"},
		{ID: "last", NextDeadline: "2025-03-31"},
		{ID: "stamp", NextDeadline: "2025-04-01T02:00:00Z"},
	}
	items := Aggregate(schools, nil)

	for _, zone := range []string{"America/New_York", "Pacific/Kiritimati", "Africa/Lagos"} {
		t.Run(zone, func(t *testing.T) {
			loc, err := utils.LoadLocation(zone)
			if err != nil {
				t.Skipf("tzdata unavailable: %v", err)
			}
			groups := GroupByMonth(items, loc)
			labels := map[string]string{}
			for _, g := range groups {
				for _, item := range g.Items {
					labels[item.School.ID] = g.Label
				}
			}
			if labels["first"] != "March 2025" || labels["last"] != "March 2025" {
				t.Errorf("calendar dates moved month in %s: %v", zone, labels)
			}
		})
	}

	ny, err := utils.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	groups := GroupByMonth(items, ny)
	if len(groups) != 1 || groups[0].Label != "March 2025" || len(groups[0].Items) != 3 {
		t.Errorf("expected the UTC timestamp to fall in March in New York, got %+v", groups)
	}
}

func TestGroupByMonth_Empty(t *testing.T) {
	if groups := GroupByMonth(nil, nil); len(groups) != 0 {
		t.Errorf("got %v", groups)
	}
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	items := Aggregate([]models.School{
		{ID: "past", NextDeadline: "2025-02-28"},
		{ID: "today", NextDeadline: "2025-03-01"},
		{ID: "future", NextDeadline: "2025-04-01"},
	}, nil)

	got := Upcoming(items, now)
	if len(got) != 2 || got[0].School.ID != "today" || got[1].School.ID != "future" {
		t.Errorf("Upcoming = %+v", got)
	}
}

type fakeSource struct {
	schools    []models.School
	programmes map[string][]models.Programme
	err        error
}

func (f fakeSource) GetSchools(context.Context) ([]models.School, error) {
	return f.schools, nil
}

func (f fakeSource) GetProgrammesBySchool(_ context.Context, id string) ([]models.Programme, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.programmes[id], nil
}

func TestCollect(t *testing.T) {
	src := fakeSource{
		schools:    []models.School{{ID: "s", NextDeadline: "2025-05-05"}},
		programmes: map[string][]models.Programme{"s": {{ID: "p", NextDeadline: "2025-05-01"}}},
	}

	items, err := Collect(context.Background(), src)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(items) != 2 || items[0].Kind != KindProgramme {
		t.Errorf("unexpected items %+v", items)
	}

	src.err = errors.New("db down")
	if _, err := Collect(context.Background(), src); !errors.Is(err, src.err) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
