package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/estudociclo/internal/db"
)

func makeSubject(id, name string, frequency, correct, wrong int) db.Subject {
	return db.Subject{
		ID:           id,
		UserKey:      "u1",
		Name:         name,
		TotalHours:   2,
		Frequency:    frequency,
		IsActive:     true,
		TotalCorrect: correct,
		TotalWrong:   wrong,
	}
}

func sequenceNames(items []db.CycleItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

func TestInterleaveRoundRobinOrder(t *testing.T) {
	cases := []struct {
		name        string
		frequencies map[string]int
		order       []string
		want        []string
	}{
		{
			name:        "freq 1 and 3",
			frequencies: map[string]int{"A": 1, "B": 3},
			order:       []string{"A", "B"},
			want:        []string{"A", "B", "B", "B"},
		},
		{
			name:        "freq 2 and 2",
			frequencies: map[string]int{"A": 2, "B": 2},
			order:       []string{"A", "B"},
			want:        []string{"A", "B", "A", "B"},
		},
		{
			name:        "freq 5 spread alongside freq 2",
			frequencies: map[string]int{"A": 5, "B": 2},
			order:       []string{"A", "B"},
			want:        []string{"A", "B", "A", "B", "A", "A", "A"},
		},
		{
			name:        "selection order decides within round",
			frequencies: map[string]int{"C": 2, "A": 2, "B": 1},
			order:       []string{"C", "A", "B"},
			want:        []string{"C", "A", "B", "C", "A"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			subjects := make([]db.Subject, 0, len(tc.order))
			for i, name := range tc.order {
				subjects = append(subjects, makeSubject(fmt.Sprintf("s%d", i), name, tc.frequencies[name], 0, 0))
			}

			items := Interleave(subjects, InterleaveOptions{})

			total := 0
			for _, f := range tc.frequencies {
				total += f
			}
			if len(items) != total {
				t.Fatalf("expected %d items, got %d", total, len(items))
			}

			got := sequenceNames(items)
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("unexpected order: got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestInterleaveClampsFrequency(t *testing.T) {
	// 频率小于 1 的学科按 1 次处理，不会被静默丢弃
	subjects := []db.Subject{
		makeSubject("s1", "A", 0, 0, 0),
		makeSubject("s2", "B", -3, 0, 0),
	}

	items := Interleave(subjects, InterleaveOptions{})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestInterleaveTimestampsStrictlyIncreasing(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	subjects := []db.Subject{
		makeSubject("s1", "A", 3, 0, 0),
		makeSubject("s2", "B", 2, 0, 0),
	}

	items := Interleave(subjects, InterleaveOptions{Base: base, Step: time.Millisecond})

	for i, item := range items {
		want := base.Add(time.Duration(i) * time.Millisecond)
		if !item.CreatedAt.Equal(want) {
			t.Fatalf("item %d: expected createdAt %v, got %v", i, want, item.CreatedAt)
		}
	}
}

func TestInterleaveBaseline(t *testing.T) {
	subjects := []db.Subject{makeSubject("s1", "A", 2, 5, 2)}

	fresh := Interleave(subjects, InterleaveOptions{})
	for _, item := range fresh {
		if item.Correct != 0 || item.Wrong != 0 {
			t.Fatalf("expected zero baseline, got %d/%d", item.Correct, item.Wrong)
		}
	}

	kept := Interleave(subjects, InterleaveOptions{KeepProgress: true})
	for _, item := range kept {
		if item.Correct != 5 || item.Wrong != 2 {
			t.Fatalf("expected kept baseline 5/2, got %d/%d", item.Correct, item.Wrong)
		}
	}

	// 纯函数：入参不被修改
	if subjects[0].TotalCorrect != 5 || subjects[0].TotalWrong != 2 {
		t.Fatal("input subjects must not be mutated")
	}
}

func TestInterleaveSnapshotFields(t *testing.T) {
	sub := makeSubject("s1", "Matemática", 1, 0, 0)
	sub.NotebookURL = "https://caderno.example/mat"
	sub.TotalHours = 1.5

	items := Interleave([]db.Subject{sub}, InterleaveOptions{})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	item := items[0]
	if item.SubjectID != "s1" || item.Name != "Matemática" {
		t.Fatalf("unexpected snapshot: %+v", item)
	}
	if item.NotebookURL != "https://caderno.example/mat" || item.HoursPerSession != 1.5 {
		t.Fatalf("unexpected snapshot: %+v", item)
	}
	if item.Completed {
		t.Fatal("new items must start not completed")
	}
	if item.ID == "" {
		t.Fatal("expected item to have an id")
	}
}
