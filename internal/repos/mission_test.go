package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/plately/plately-backend/internal/repos"
	"github.com/plately/plately-backend/internal/repos/testutil"
	"github.com/plately/plately-backend/internal/types"
)

func TestMissionRepoCompletePendingIsSingleShot(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.RollbackTx(t, db)
	ctx := context.Background()
	repo := repos.NewMissionRepo(db, testutil.TestLogger(t))

	user := testutil.SeedUser(t, tx)
	strategy := testutil.SeedStrategy(t, tx)
	tpl := testutil.SeedTemplate(t, tx, strategy.ID, types.TemplateTypePost, 20)

	now := time.Now().UTC()
	created, err := repo.Create(ctx, tx, []*types.Mission{{
		ID:                uuid.New(),
		UserID:            user.ID,
		MissionTemplateID: tpl.ID,
		SlotNumber:        types.SlotPublication,
		Status:            types.MissionStatusPending,
		AssignedAt:        now,
	}})
	if err != nil {
		t.Fatalf("create mission: %v", err)
	}
	missionID := created[0].ID

	ok, err := repo.CompletePending(ctx, tx, missionID, user.ID, now)
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if !ok {
		t.Fatal("first completion should succeed")
	}

	ok, err = repo.CompletePending(ctx, tx, missionID, user.ID, now)
	if err != nil {
		t.Fatalf("second completion: %v", err)
	}
	if ok {
		t.Fatal("second completion must not match any row")
	}

	reloaded, err := repo.GetByIDForUser(ctx, tx, missionID, user.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != types.MissionStatusCompleted {
		t.Fatalf("status = %q, want completed", reloaded.Status)
	}
	if reloaded.CompletedAt == nil {
		t.Fatal("CompletedAt not set")
	}
	if reloaded.Template == nil || reloaded.Template.ID != tpl.ID {
		t.Fatal("template not preloaded on reload")
	}
}

func TestMissionRepoCompletePendingScopedToUser(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.RollbackTx(t, db)
	ctx := context.Background()
	repo := repos.NewMissionRepo(db, testutil.TestLogger(t))

	owner := testutil.SeedUser(t, tx)
	other := testutil.SeedUser(t, tx)
	strategy := testutil.SeedStrategy(t, tx)
	tpl := testutil.SeedTemplate(t, tx, strategy.ID, types.TemplateTypeStory, 15)

	now := time.Now().UTC()
	created, err := repo.Create(ctx, tx, []*types.Mission{{
		ID:                uuid.New(),
		UserID:            owner.ID,
		MissionTemplateID: tpl.ID,
		SlotNumber:        types.SlotPublication,
		Status:            types.MissionStatusPending,
		AssignedAt:        now,
	}})
	if err != nil {
		t.Fatalf("create mission: %v", err)
	}

	ok, err := repo.CompletePending(ctx, tx, created[0].ID, other.ID, now)
	if err != nil {
		t.Fatalf("cross-user completion: %v", err)
	}
	if ok {
		t.Fatal("another user's mission must not be completable")
	}
}

func TestMissionRepoWindowOrderedBySlot(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.RollbackTx(t, db)
	ctx := context.Background()
	repo := repos.NewMissionRepo(db, testutil.TestLogger(t))

	user := testutil.SeedUser(t, tx)
	strategy := testutil.SeedStrategy(t, tx)
	tpl := testutil.SeedTemplate(t, tx, strategy.ID, types.TemplateTypePost, 20)

	now := time.Now().UTC()
	rows := []*types.Mission{
		{ID: uuid.New(), UserID: user.ID, MissionTemplateID: tpl.ID, SlotNumber: types.SlotTutorial, Status: types.MissionStatusPending, AssignedAt: now},
		{ID: uuid.New(), UserID: user.ID, MissionTemplateID: tpl.ID, SlotNumber: types.SlotPublication, Status: types.MissionStatusPending, AssignedAt: now},
		{ID: uuid.New(), UserID: user.ID, MissionTemplateID: tpl.ID, SlotNumber: types.SlotEngagement, Status: types.MissionStatusPending, AssignedAt: now},
	}
	if _, err := repo.Create(ctx, tx, rows); err != nil {
		t.Fatalf("create missions: %v", err)
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	got, err := repo.GetByUserAndWindow(ctx, tx, user.ID, start, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("window query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	for i, m := range got {
		if m.SlotNumber != i+1 {
			t.Fatalf("row %d has slot %d, want %d", i, m.SlotNumber, i+1)
		}
	}
}

func TestMissionRepoGetPendingTutoInWindow(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.RollbackTx(t, db)
	ctx := context.Background()
	repo := repos.NewMissionRepo(db, testutil.TestLogger(t))

	user := testutil.SeedUser(t, tx)
	strategy := testutil.SeedStrategy(t, tx)
	tutorial := testutil.SeedTutorial(t, tx, 1)

	tpl := testutil.SeedTemplate(t, tx, strategy.ID, types.TemplateTypeTuto, 10)
	if err := tx.Model(tpl).Update("tutorial_id", tutorial.ID).Error; err != nil {
		t.Fatalf("link tutorial: %v", err)
	}

	now := time.Now().UTC()
	created, err := repo.Create(ctx, tx, []*types.Mission{{
		ID:                uuid.New(),
		UserID:            user.ID,
		MissionTemplateID: tpl.ID,
		SlotNumber:        types.SlotTutorial,
		Status:            types.MissionStatusPending,
		AssignedAt:        now,
	}})
	if err != nil {
		t.Fatalf("create mission: %v", err)
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	found, err := repo.GetPendingTutoInWindow(ctx, tx, user.ID, tutorial.ID, start, end)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found == nil || found.ID != created[0].ID {
		t.Fatal("pending tuto mission not found by tutorial id")
	}

	if found, err = repo.GetPendingTutoInWindow(ctx, tx, user.ID, uuid.New(), start, end); err != nil {
		t.Fatalf("lookup other tutorial: %v", err)
	} else if found != nil {
		t.Fatal("unrelated tutorial id must not match")
	}

	if _, err := repo.CompletePending(ctx, tx, created[0].ID, user.ID, now); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if found, err = repo.GetPendingTutoInWindow(ctx, tx, user.ID, tutorial.ID, start, end); err != nil {
		t.Fatalf("lookup after completion: %v", err)
	} else if found != nil {
		t.Fatal("completed tuto mission must no longer match")
	}
}

func TestMissionRepoCompletedTemplateIDsDistinct(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.RollbackTx(t, db)
	ctx := context.Background()
	repo := repos.NewMissionRepo(db, testutil.TestLogger(t))

	user := testutil.SeedUser(t, tx)
	strategy := testutil.SeedStrategy(t, tx)
	tpl := testutil.SeedTemplate(t, tx, strategy.ID, types.TemplateTypeEngagement, 10)

	now := time.Now().UTC()
	completedAt := now
	for i := 0; i < 2; i++ {
		assigned := now.AddDate(0, 0, -i)
		if _, err := repo.Create(ctx, tx, []*types.Mission{{
			ID:                uuid.New(),
			UserID:            user.ID,
			MissionTemplateID: tpl.ID,
			SlotNumber:        types.SlotEngagement,
			Status:            types.MissionStatusCompleted,
			AssignedAt:        assigned,
			CompletedAt:       &completedAt,
		}}); err != nil {
			t.Fatalf("create mission %d: %v", i, err)
		}
	}

	ids, err := repo.CompletedTemplateIDs(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("completed template ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != tpl.ID {
		t.Fatalf("ids = %v, want exactly [%s]", ids, tpl.ID)
	}
}
