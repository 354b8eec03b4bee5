package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/cashflowcoders/devplanner/internal/apperror"
	"github.com/cashflowcoders/devplanner/internal/model"
	"github.com/cashflowcoders/devplanner/internal/repository"
)

func createTestJournal(t *testing.T, db *DB, userID, date string) *model.Journal {
	t.Helper()
	j := &model.Journal{
		UserID:        userID,
		Date:          date,
		Content:       "today I wrote tests",
		Energy:        5,
		WordCount:     4,
		Learnings:     []string{},
		Challenges:    []string{},
		Wins:          []string{},
		Goals:         []string{},
		Gratitude:     []string{},
		TomorrowFocus: []string{},
	}
	if err := db.CreateJournal(context.Background(), j); err != nil {
		t.Fatalf("failed to create test journal entry: %v", err)
	}
	return j
}

func TestCreateJournal(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "journal@example.com")

	j := &model.Journal{
		UserID:    u.ID,
		Date:      "2026-08-30",
		Content:   "reflections on the day",
		Mood:      "calm",
		Energy:    6,
		WordCount: 4,
		Learnings: []string{"chi routing", "sqlite upserts"},
		Wins:      []string{"all tests green"},
	}
	if err := db.CreateJournal(context.Background(), j); err != nil {
		t.Fatalf("CreateJournal() error = %v", err)
	}

	found, err := db.GetJournalByID(context.Background(), j.ID, u.ID)
	if err != nil {
		t.Fatalf("GetJournalByID() error = %v", err)
	}
	if found.Content != "reflections on the day" {
		t.Errorf("Content = %q", found.Content)
	}
	if len(found.Learnings) != 2 || found.Learnings[0] != "chi routing" {
		t.Errorf("Learnings = %v, want the stored list", found.Learnings)
	}
	if len(found.Wins) != 1 {
		t.Errorf("Wins = %v, want one entry", found.Wins)
	}
}

// One entry per user per day, enforced by the UNIQUE index.
func TestCreateJournal_DuplicateDateConflict(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "dup@example.com")
	createTestJournal(t, db, u.ID, "2026-08-30")

	second := &model.Journal{UserID: u.ID, Date: "2026-08-30", Content: "again"}
	err := db.CreateJournal(context.Background(), second)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate CreateJournal() error = %v, want ErrConflict", err)
	}
}

// The per-day uniqueness is per user, not global.
func TestCreateJournal_SameDateDifferentUsers(t *testing.T) {
	db := newTestDB(t)
	a := createTestUser(t, db, "j-a@example.com")
	b := createTestUser(t, db, "j-b@example.com")

	createTestJournal(t, db, a.ID, "2026-08-30")
	createTestJournal(t, db, b.ID, "2026-08-30")
}

func TestListJournal_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "j-list@example.com")

	createTestJournal(t, db, u.ID, "2026-08-28")
	createTestJournal(t, db, u.ID, "2026-08-30")
	createTestJournal(t, db, u.ID, "2026-08-29")

	entries, err := db.ListJournal(context.Background(), u.ID, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListJournal() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("ListJournal() returned %d, want 3", len(entries))
	}
	if entries[0].Date != "2026-08-30" {
		t.Errorf("first entry date = %s, want newest day first", entries[0].Date)
	}
}

func TestUpdateJournal(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "j-update@example.com")
	j := createTestJournal(t, db, u.ID, "2026-08-30")

	j.Content = "rewritten entry with more words"
	j.WordCount = 5
	j.TomorrowFocus = []string{"ship the feature"}
	if err := db.UpdateJournal(context.Background(), j); err != nil {
		t.Fatalf("UpdateJournal() error = %v", err)
	}

	found, _ := db.GetJournalByID(context.Background(), j.ID, u.ID)
	if found.WordCount != 5 {
		t.Errorf("WordCount = %d, want 5", found.WordCount)
	}
	if len(found.TomorrowFocus) != 1 {
		t.Errorf("TomorrowFocus = %v, want one entry", found.TomorrowFocus)
	}
}

func TestDeleteJournal_OwnershipScoped(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "j-owner@example.com")
	other := createTestUser(t, db, "j-other@example.com")
	j := createTestJournal(t, db, owner.ID, "2026-08-30")

	if err := db.DeleteJournal(ctx, j.ID, other.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("other user DeleteJournal() error = %v, want ErrNotFound", err)
	}
	if err := db.DeleteJournal(ctx, j.ID, owner.ID); err != nil {
		t.Fatalf("owner DeleteJournal() error = %v", err)
	}

	// Day freed up — a fresh entry for the same date works again.
	createTestJournal(t, db, owner.ID, "2026-08-30")
}
