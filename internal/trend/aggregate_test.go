package trend

import (
	"math"
	"testing"
	"time"

	"github.com/rickgao/bazaarsetu/internal/model"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func series(modals ...float64) model.TrendSeries {
	s := model.TrendSeries{CommodityID: 7}
	for i, m := range modals {
		s.Points = append(s.Points, model.DailyPoint{
			Date:       day(i + 1),
			MinPrice:   m - 1,
			MaxPrice:   m + 1,
			ModalPrice: m,
		})
	}
	return s
}

func assertFloat(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %v", name, want)
	}
	if math.Abs(*got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, *got, want)
	}
}

func TestAggregate(t *testing.T) {
	got := Aggregate(series(10, 30, 20))

	if len(got.Points) != 3 {
		t.Fatalf("len(Points) = %d, want 3", len(got.Points))
	}
	assertFloat(t, "MinPrice", got.MinPrice, 10)
	assertFloat(t, "MaxPrice", got.MaxPrice, 30)
	assertFloat(t, "AvgPrice", got.AvgPrice, 20)
	assertFloat(t, "ChangePercent", got.ChangePercent, 100)

	p := got.Points[1]
	if p.Label != "02 Jan" {
		t.Errorf("Label = %q, want %q", p.Label, "02 Jan")
	}
	if p.Min != 29 || p.Modal != 30 || p.Max != 31 {
		t.Errorf("point = %+v, want min 29 modal 30 max 31", p)
	}
	if !p.Date.Equal(day(2)) {
		t.Errorf("Date = %v, want %v", p.Date, day(2))
	}
	if got.Empty() {
		t.Error("Empty() = true, want false")
	}
}

func TestAggregateDecrease(t *testing.T) {
	got := Aggregate(series(40, 30))
	assertFloat(t, "ChangePercent", got.ChangePercent, -25)
}

func TestAggregateAvgPrecision(t *testing.T) {
	got := Aggregate(series(0.1, 0.2))
	assertFloat(t, "AvgPrice", got.AvgPrice, 0.15)
}

func TestAggregateZeroFirst(t *testing.T) {
	got := Aggregate(series(0, 50))

	if got.ChangePercent == nil {
		t.Fatal("ChangePercent = nil")
	}
	if math.IsNaN(*got.ChangePercent) || math.IsInf(*got.ChangePercent, 0) {
		t.Fatalf("ChangePercent = %v, want finite", *got.ChangePercent)
	}
	assertFloat(t, "ChangePercent", got.ChangePercent, 0)
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(model.TrendSeries{
		Summary: model.TrendSummary{AvgPrice: ptr(12.0)},
	})

	if !got.Empty() {
		t.Error("Empty() = false, want true")
	}
	if got.Points == nil {
		t.Error("Points = nil, want empty slice")
	}
	if got.MinPrice != nil || got.MaxPrice != nil || got.AvgPrice != nil || got.ChangePercent != nil {
		t.Errorf("summary fields = %+v, want all nil", got)
	}
}

func TestAggregateBackendPrecedence(t *testing.T) {
	s := series(10, 20)
	s.Summary = model.TrendSummary{
		MinPrice:      ptr(8.0),
		ChangePercent: ptr(5.5),
	}

	got := Aggregate(s)
	assertFloat(t, "MinPrice", got.MinPrice, 8)
	assertFloat(t, "MaxPrice", got.MaxPrice, 20)
	assertFloat(t, "AvgPrice", got.AvgPrice, 15)
	assertFloat(t, "ChangePercent", got.ChangePercent, 5.5)

	*s.Summary.MinPrice = 1
	assertFloat(t, "MinPrice after mutation", got.MinPrice, 8)
}

func TestChangePercent(t *testing.T) {
	tests := []struct {
		first, last, want float64
	}{
		{100, 110, 10},
		{100, 90, -10},
		{0, 0, 0},
		{0, 10, 0},
		{50, 50, 0},
	}

	for _, tt := range tests {
		if got := ChangePercent(tt.first, tt.last); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ChangePercent(%v, %v) = %v, want %v", tt.first, tt.last, got, tt.want)
		}
	}
}

func ptr(v float64) *float64 { return &v }
