package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"focustrack/internal/adapters/sqlite"
	"focustrack/internal/domain"
	"focustrack/internal/ports"
)

func listAll() ports.SessionFilter { return ports.SessionFilter{} }

func TestSessionRepository_SaveAndList(t *testing.T) {
	store := testStore(t)
	repo := sqlite.NewSessionRepository(store)
	ctx := context.Background()

	notes := "went well"
	start := time.Date(2026, 8, 28, 9, 30, 0, 0, time.Local)
	session := &domain.Session{
		StartTime:     start,
		EndTime:       start.Add(25 * time.Minute),
		Duration:      1500,
		TaskName:      "write report",
		Completed:     true,
		Interruptions: 1,
		FocusScore:    90,
		Tags:          []string{"work", "deep"},
		Notes:         &notes,
	}

	id, err := repo.Save(ctx, session)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id == 0 {
		t.Error("expected a non-zero ID")
	}

	sessions, err := repo.List(ctx, listAll())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}

	got := sessions[0]
	if got.TaskName != "write report" {
		t.Errorf("task = %q, want %q", got.TaskName, "write report")
	}
	if !got.StartTime.Equal(start) {
		t.Errorf("start = %v, want %v", got.StartTime, start)
	}
	if got.Interruptions != 1 || got.FocusScore != 90 {
		t.Errorf("interruptions/focus = %d/%.0f, want 1/90", got.Interruptions, got.FocusScore)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "work" {
		t.Errorf("tags = %v, want [work deep]", got.Tags)
	}
	if got.Notes == nil || *got.Notes != notes {
		t.Errorf("notes = %v, want %q", got.Notes, notes)
	}
}

func TestSessionRepository_TimestampsKeepLocalDay(t *testing.T) {
	store := testStore(t)
	repo := sqlite.NewSessionRepository(store)
	ctx := context.Background()

	// A late-evening session must stay on its local calendar day. If the
	// stored text were decoded as UTC on the way out, both the wall clock
	// and the date() grouping could land on the next day.
	start := time.Date(2026, 8, 28, 23, 30, 0, 0, time.Local)
	saveSession(t, repo, start, "night shift", 0, true)

	sessions, err := repo.List(ctx, listAll())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	got := sessions[0].StartTime
	if got.Location() != time.Local {
		t.Errorf("location = %v, want Local", got.Location())
	}
	if got.Hour() != 23 || got.Minute() != 30 || got.Day() != 28 {
		t.Errorf("wall clock = %v, want 2026-08-28 23:30 local", got)
	}

	sameDay, err := repo.DailySummary(ctx, start)
	if err != nil {
		t.Fatalf("DailySummary failed: %v", err)
	}
	if sameDay.Count != 1 {
		t.Errorf("count on 28th = %d, want 1", sameDay.Count)
	}
	nextDay, err := repo.DailySummary(ctx, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("DailySummary failed: %v", err)
	}
	if nextDay.Count != 0 {
		t.Errorf("count on 29th = %d, want 0", nextDay.Count)
	}
}

func TestSessionRepository_SaveDefaultsTaskName(t *testing.T) {
	store := testStore(t)
	repo := sqlite.NewSessionRepository(store)
	ctx := context.Background()

	start := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)
	session := &domain.Session{
		StartTime: start,
		EndTime:   start.Add(25 * time.Minute),
		Duration:  1500,
		Completed: true,
	}
	if _, err := repo.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sessions, err := repo.List(ctx, listAll())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if sessions[0].TaskName != domain.DefaultTaskName {
		t.Errorf("task = %q, want %q", sessions[0].TaskName, domain.DefaultTaskName)
	}
}

func TestSessionRepository_SaveRejectsInvalid(t *testing.T) {
	store := testStore(t)
	repo := sqlite.NewSessionRepository(store)

	start := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)
	session := &domain.Session{
		StartTime: start,
		EndTime:   start.Add(-time.Minute),
	}
	_, err := repo.Save(context.Background(), session)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSessionRepository_ListFilters(t *testing.T) {
	store := testStore(t)
	repo := sqlite.NewSessionRepository(store)
	ctx := context.Background()

	saveSession(t, repo, time.Date(2026, 8, 26, 9, 0, 0, 0, time.Local), "alpha", 0, true)
	saveSession(t, repo, time.Date(2026, 8, 27, 9, 0, 0, 0, time.Local), "beta", 0, true)
	saveSession(t, repo, time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local), "alphabet", 0, true)

	from := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)
	sessions, err := repo.List(ctx, ports.SessionFilter{StartDate: &from})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("date filter: expected 2 sessions, got %d", len(sessions))
	}

	sessions, err = repo.List(ctx, ports.SessionFilter{TaskName: "alpha"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("task filter: expected 2 sessions, got %d", len(sessions))
	}

	sessions, err = repo.List(ctx, ports.SessionFilter{Limit: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("limit: expected 1 session, got %d", len(sessions))
	}
	// Newest first.
	if sessions[0].TaskName != "alphabet" {
		t.Errorf("expected newest session first, got %q", sessions[0].TaskName)
	}
}

func TestSessionRepository_DailySummary(t *testing.T) {
	store := testStore(t)
	repo := sqlite.NewSessionRepository(store)
	ctx := context.Background()

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)
	saveSession(t, repo, day.Add(9*time.Hour), "alpha", 0, true)
	saveSession(t, repo, day.Add(9*time.Hour+30*time.Minute), "alpha", 2, true)
	saveSession(t, repo, day.Add(14*time.Hour), "beta", 0, true)
	saveSession(t, repo, day.Add(16*time.Hour), "gamma", 0, false) // incomplete, excluded

	summary, err := repo.DailySummary(ctx, day)
	if err != nil {
		t.Fatalf("DailySummary failed: %v", err)
	}

	if summary.Count != 3 {
		t.Errorf("count = %d, want 3", summary.Count)
	}
	if summary.TotalMinutes != 75 {
		t.Errorf("minutes = %d, want 75", summary.TotalMinutes)
	}
	if summary.DistinctTasks != 2 {
		t.Errorf("distinct tasks = %d, want 2", summary.DistinctTasks)
	}
	want := (100.0 + 80.0 + 100.0) / 3
	if diff := summary.AvgFocusScore - want; diff > 0.01 || diff < -0.01 {
		t.Errorf("avg focus = %v, want %v", summary.AvgFocusScore, want)
	}
	if summary.MostProductiveHour == nil || *summary.MostProductiveHour != 9 {
		t.Errorf("most productive hour = %v, want 9", summary.MostProductiveHour)
	}
}

func TestSessionRepository_DailySummaryHourTie(t *testing.T) {
	store := testStore(t)
	repo := sqlite.NewSessionRepository(store)
	ctx := context.Background()

	// One session at 14:00 and one at 09:00: the earlier hour wins the tie.
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)
	saveSession(t, repo, day.Add(14*time.Hour), "a", 0, true)
	saveSession(t, repo, day.Add(9*time.Hour), "a", 0, true)

	summary, err := repo.DailySummary(ctx, day)
	if err != nil {
		t.Fatalf("DailySummary failed: %v", err)
	}
	if summary.MostProductiveHour == nil || *summary.MostProductiveHour != 9 {
		t.Errorf("most productive hour = %v, want 9", summary.MostProductiveHour)
	}
}

func TestSessionRepository_DailySummaryEmptyDay(t *testing.T) {
	store := testStore(t)
	repo := sqlite.NewSessionRepository(store)

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)
	summary, err := repo.DailySummary(context.Background(), day)
	if err != nil {
		t.Fatalf("DailySummary failed: %v", err)
	}
	if summary.Count != 0 {
		t.Errorf("count = %d, want 0", summary.Count)
	}
	if summary.MostProductiveHour != nil {
		t.Errorf("most productive hour = %v, want nil", *summary.MostProductiveHour)
	}
}

func TestSessionRepository_LifetimeSummary(t *testing.T) {
	store := testStore(t)
	repo := sqlite.NewSessionRepository(store)
	ctx := context.Background()

	saveSession(t, repo, time.Date(2026, 8, 27, 9, 0, 0, 0, time.Local), "alpha", 0, true)
	saveSession(t, repo, time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local), "beta", 10, true)
	saveSession(t, repo, time.Date(2026, 8, 28, 11, 0, 0, 0, time.Local), "gamma", 0, false)

	summary, err := repo.LifetimeSummary(ctx)
	if err != nil {
		t.Fatalf("LifetimeSummary failed: %v", err)
	}

	if summary.CompletedCount != 2 {
		t.Errorf("completed = %d, want 2", summary.CompletedCount)
	}
	// 2 * 25 minutes over completed sessions.
	if diff := summary.TotalHours - 50.0/60; diff > 0.01 || diff < -0.01 {
		t.Errorf("hours = %v, want %v", summary.TotalHours, 50.0/60)
	}
	// Incomplete sessions still count toward distinct tasks.
	if summary.DistinctTasks != 3 {
		t.Errorf("distinct tasks = %d, want 3", summary.DistinctTasks)
	}
	if summary.AvgFocusScore != 50 {
		t.Errorf("avg focus = %v, want 50", summary.AvgFocusScore)
	}
}

func TestSessionRepository_TaskStats(t *testing.T) {
	store := testStore(t)
	repo := sqlite.NewSessionRepository(store)
	ctx := context.Background()

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)
	saveSession(t, repo, day.Add(9*time.Hour), "alpha", 0, true)
	saveSession(t, repo, day.Add(10*time.Hour), "alpha", 0, true)
	saveSession(t, repo, day.Add(11*time.Hour), "beta", 0, true)

	tasks, err := repo.TaskStats(ctx, 10)
	if err != nil {
		t.Fatalf("TaskStats failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Name != "alpha" || tasks[0].Sessions != 2 {
		t.Errorf("top task = %q/%d, want alpha/2", tasks[0].Name, tasks[0].Sessions)
	}
}

func TestSessionRepository_AchievementQueries(t *testing.T) {
	store := testStore(t)
	repo := sqlite.NewSessionRepository(store)
	ctx := context.Background()

	// Saturday and Sunday, 2026-08-29/30.
	saveSession(t, repo, time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local), "chores", 0, true)
	saveSession(t, repo, time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local), "chores", 1, true)
	// Monday, three distinct tasks.
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)
	saveSession(t, repo, monday.Add(9*time.Hour), "a", 2, true)
	saveSession(t, repo, monday.Add(10*time.Hour), "b", 0, true)
	saveSession(t, repo, monday.Add(11*time.Hour), "c", 0, true)

	weekend, err := repo.WeekendCompletedCount(ctx)
	if err != nil {
		t.Fatalf("WeekendCompletedCount failed: %v", err)
	}
	if weekend != 2 {
		t.Errorf("weekend count = %d, want 2", weekend)
	}

	calm, err := repo.HasCompletedZeroInterruptions(ctx)
	if err != nil {
		t.Fatalf("HasCompletedZeroInterruptions failed: %v", err)
	}
	if !calm {
		t.Error("expected at least one uninterrupted session")
	}

	maxTask, err := repo.MaxCompletedForSingleTask(ctx)
	if err != nil {
		t.Fatalf("MaxCompletedForSingleTask failed: %v", err)
	}
	if maxTask != 2 {
		t.Errorf("max single task = %d, want 2", maxTask)
	}

	maxTasks, err := repo.MaxDistinctTasksInDay(ctx)
	if err != nil {
		t.Fatalf("MaxDistinctTasksInDay failed: %v", err)
	}
	if maxTasks != 3 {
		t.Errorf("max distinct tasks = %d, want 3", maxTasks)
	}

	seq, err := repo.CompletedInterruptionSeq(ctx)
	if err != nil {
		t.Fatalf("CompletedInterruptionSeq failed: %v", err)
	}
	want := []int64{0, 1, 2, 0, 0}
	if len(seq) != len(want) {
		t.Fatalf("seq length = %d, want %d", len(seq), len(want))
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Errorf("seq[%d] = %d, want %d", i, seq[i], want[i])
		}
	}
}

func TestSessionRepository_CompletedCountOnDay(t *testing.T) {
	store := testStore(t)
	repo := sqlite.NewSessionRepository(store)
	ctx := context.Background()

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)
	saveSession(t, repo, day.Add(9*time.Hour), "a", 0, true)
	saveSession(t, repo, day.Add(10*time.Hour), "a", 0, false)

	count, err := repo.CompletedCountOnDay(ctx, day)
	if err != nil {
		t.Fatalf("CompletedCountOnDay failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
