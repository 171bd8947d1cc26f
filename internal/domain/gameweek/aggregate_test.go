package gameweek

import (
	"errors"
	"testing"
)

func TestNewRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		start   int
		end     int
		wantErr bool
	}{
		{name: "single gameweek", start: 5, end: 5},
		{name: "full season", start: 1, end: 38},
		{name: "start after end", start: 10, end: 9, wantErr: true},
		{name: "start below season", start: 0, end: 4, wantErr: true},
		{name: "end beyond season", start: 30, end: 39, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewRange(tc.start, tc.end)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("expected ErrInvalidRange, got %v", err)
				}
				var rangeErr *RangeError
				if !errors.As(err, &rangeErr) || rangeErr.Start != tc.start || rangeErr.End != tc.end {
					t.Fatalf("expected RangeError with bounds, got %#v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAggregate_NetPointsAndRangeFilter(t *testing.T) {
	t.Parallel()

	history := []RawEvent{
		{Event: 1, Points: 60, TotalPoints: 60},
		{Event: 3, Points: 70, TotalPoints: 175, EventTransfers: 1},
		{Event: 2, Points: 45, TotalPoints: 105, EventTransfers: 2, EventTransfersCost: 4, PointsOnBench: 7},
		{Event: 4, Points: 50, TotalPoints: 225},
	}
	r, err := NewRange(1, 3)
	if err != nil {
		t.Fatalf("new range: %v", err)
	}

	records := Aggregate(42, history, r)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	wantNet := []int{60, 41, 70}
	for i, rec := range records {
		if rec.Gameweek != i+1 {
			t.Fatalf("records not ordered by gameweek: %+v", records)
		}
		if rec.EntryID != 42 {
			t.Fatalf("unexpected entry id: %d", rec.EntryID)
		}
		if rec.NetPoints != rec.Points-rec.TransferCost {
			t.Fatalf("net points mismatch for gw %d: %+v", rec.Gameweek, rec)
		}
		if rec.NetPoints != wantNet[i] {
			t.Fatalf("gw %d net=%d want %d", rec.Gameweek, rec.NetPoints, wantNet[i])
		}
	}

	gw2 := records[1]
	if gw2.TransferCount != 2 || gw2.TransferCost != 4 || gw2.BenchPoints != 7 || gw2.TotalPoints != 105 {
		t.Fatalf("unexpected gw2 record: %+v", gw2)
	}
}

func TestAggregate_MissingGameweeksAreNotZeroFilled(t *testing.T) {
	t.Parallel()

	history := []RawEvent{
		{Event: 5, Points: 40},
		{Event: 7, Points: 52},
	}
	r, _ := NewRange(1, 8)

	records := Aggregate(7, history, r)
	if len(records) != 2 {
		t.Fatalf("expected only the two gameweeks present, got %d", len(records))
	}
	for _, rec := range records {
		if rec.Gameweek != 5 && rec.Gameweek != 7 {
			t.Fatalf("unexpected synthetic gameweek %d", rec.Gameweek)
		}
	}
}

func TestAggregate_NegativeNetPointsAreNotClamped(t *testing.T) {
	t.Parallel()

	r, _ := NewRange(1, 1)
	records := Aggregate(1, []RawEvent{{Event: 1, Points: 2, EventTransfersCost: 8}}, r)
	if len(records) != 1 || records[0].NetPoints != -6 {
		t.Fatalf("expected net points -6, got %+v", records)
	}
}

func TestAggregate_DuplicateEventKeepsFirst(t *testing.T) {
	t.Parallel()

	r, _ := NewRange(1, 2)
	records := Aggregate(1, []RawEvent{{Event: 1, Points: 10}, {Event: 1, Points: 99}}, r)
	if len(records) != 1 || records[0].Points != 10 {
		t.Fatalf("expected first occurrence to win, got %+v", records)
	}
}

func TestFetchError_WrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := error(&FetchError{EntryID: 9, Err: cause})
	if !errors.Is(err, ErrDataFetch) {
		t.Fatalf("expected ErrDataFetch")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be unwrapped")
	}
}
