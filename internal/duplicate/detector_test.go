package duplicate

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/bus-complaint-service/internal/domain"
	"github.com/spec-kit/bus-complaint-service/internal/repository"
)

// fakeComplaintStore serves stored complaints filtered the way the Postgres
// implementation does: same route, incident date within [day, day+1d).
type fakeComplaintStore struct {
	repository.ComplaintRepository
	stored []domain.Complaint
}

func (f *fakeComplaintStore) ListByRouteAndDay(_ context.Context, route string, day time.Time) ([]domain.Complaint, error) {
	next := day.Add(24 * time.Hour)
	var out []domain.Complaint
	for _, c := range f.stored {
		if c.BusRoute != route {
			continue
		}
		if c.IncidentDate.Before(day) || !c.IncidentDate.Before(next) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsDuplicate(t *testing.T) {
	day := date(2024, time.January, 1)

	cases := []struct {
		name        string
		stored      []domain.Complaint
		route       string
		date        time.Time
		description string
		want        bool
	}{
		{
			name:        "exact match",
			stored:      []domain.Complaint{{BusRoute: "Route 1", IncidentDate: day, Description: "driver was rude"}},
			route:       "Route 1",
			date:        day,
			description: "driver was rude",
			want:        true,
		},
		{
			name:        "new description contains stored",
			stored:      []domain.Complaint{{BusRoute: "Route 1", IncidentDate: day, Description: "driver was rude"}},
			route:       "Route 1",
			date:        day,
			description: "the driver was rude today",
			want:        true,
		},
		{
			name:        "stored description contains new",
			stored:      []domain.Complaint{{BusRoute: "Route 1", IncidentDate: day, Description: "the driver was very rude today"}},
			route:       "Route 1",
			date:        day,
			description: "driver was very rude",
			want:        true,
		},
		{
			name:        "case insensitive",
			stored:      []domain.Complaint{{BusRoute: "Route 1", IncidentDate: day, Description: "BROKEN AC UNIT"}},
			route:       "Route 1",
			date:        day,
			description: "broken ac unit",
			want:        true,
		},
		{
			name:        "different route never matches",
			stored:      []domain.Complaint{{BusRoute: "Route 1", IncidentDate: day, Description: "broken ac unit"}},
			route:       "Route 2",
			date:        day,
			description: "broken ac unit",
			want:        false,
		},
		{
			name:        "next calendar day never matches",
			stored:      []domain.Complaint{{BusRoute: "Route 1", IncidentDate: day, Description: "broken ac unit"}},
			route:       "Route 1",
			date:        date(2024, time.January, 2),
			description: "broken ac unit",
			want:        false,
		},
		{
			name:        "time of day is ignored",
			stored:      []domain.Complaint{{BusRoute: "Route 1", IncidentDate: day, Description: "broken ac unit"}},
			route:       "Route 1",
			date:        time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC),
			description: "broken ac unit",
			want:        true,
		},
		{
			name:        "unrelated description",
			stored:      []domain.Complaint{{BusRoute: "Route 1", IncidentDate: day, Description: "broken ac unit"}},
			route:       "Route 1",
			date:        day,
			description: "bus arrived forty minutes late",
			want:        false,
		},
		{
			name:        "empty new description never matches",
			stored:      []domain.Complaint{{BusRoute: "Route 1", IncidentDate: day, Description: "broken ac unit"}},
			route:       "Route 1",
			date:        day,
			description: "",
			want:        false,
		},
		{
			name:        "whitespace only new description never matches",
			stored:      []domain.Complaint{{BusRoute: "Route 1", IncidentDate: day, Description: "broken ac unit"}},
			route:       "Route 1",
			date:        day,
			description: "   ",
			want:        false,
		},
		{
			name:        "empty stored description is skipped",
			stored:      []domain.Complaint{{BusRoute: "Route 1", IncidentDate: day, Description: ""}},
			route:       "Route 1",
			date:        day,
			description: "broken ac unit",
			want:        false,
		},
		{
			name:        "no stored complaints",
			stored:      nil,
			route:       "Route 1",
			date:        day,
			description: "broken ac unit",
			want:        false,
		},
		{
			name: "first matching candidate wins among several",
			stored: []domain.Complaint{
				{BusRoute: "Route 1", IncidentDate: day, Description: "seat belts missing"},
				{BusRoute: "Route 1", IncidentDate: day, Description: "broken ac unit"},
			},
			route:       "Route 1",
			date:        day,
			description: "the ac unit is broken ac unit again",
			want:        true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			detector := NewDetector(&fakeComplaintStore{stored: tc.stored})
			got, err := detector.IsDuplicate(context.Background(), tc.route, tc.date, tc.description)
			if err != nil {
				t.Fatalf("IsDuplicate: %v", err)
			}
			if got != tc.want {
				t.Fatalf("IsDuplicate(%q, %s, %q) = %v, want %v", tc.route, tc.date.Format("2006-01-02"), tc.description, got, tc.want)
			}
		})
	}
}

// Containment must hold regardless of which phrasing arrives first.
func TestIsDuplicateSymmetry(t *testing.T) {
	day := date(2024, time.March, 1)
	short := "broken AC unit"
	long := "the broken AC unit made the ride unbearable"

	pairs := [][2]string{{short, long}, {long, short}}
	for _, pair := range pairs {
		store := &fakeComplaintStore{stored: []domain.Complaint{{
			BusRoute:     "Route 1",
			IncidentDate: day,
			Description:  pair[0],
		}}}
		detector := NewDetector(store)
		got, err := detector.IsDuplicate(context.Background(), "Route 1", day, pair[1])
		if err != nil {
			t.Fatalf("IsDuplicate: %v", err)
		}
		if !got {
			t.Fatalf("expected duplicate for stored=%q new=%q", pair[0], pair[1])
		}
	}
}

func TestMidnight(t *testing.T) {
	in := time.Date(2024, time.January, 1, 23, 59, 59, 0, time.UTC)
	got := Midnight(in)
	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Midnight(%s) = %s, want %s", in, got, want)
	}
}
