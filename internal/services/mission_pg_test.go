package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/plately/plately-backend/internal/repos"
	"github.com/plately/plately-backend/internal/repos/testutil"
	"github.com/plately/plately-backend/internal/types"
)

// Concurrent first-of-day requests must converge on one mission set: the
// advisory lock serializes creation and the re-check under the lock makes
// every racer adopt the winner's rows.
func TestGetTodayMissionsConcurrentAssignment(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	log := testutil.TestLogger(t)

	// Committed fixtures: each racer runs its own transaction, so a
	// rollback-scoped harness cannot be used here.
	user := testutil.SeedUser(t, db)
	strategy := testutil.SeedStrategy(t, db)
	templates := []*types.MissionTemplate{
		testutil.SeedTemplate(t, db, strategy.ID, types.TemplateTypePost, 20),
		testutil.SeedTemplate(t, db, strategy.ID, types.TemplateTypeStory, 15),
		testutil.SeedTemplate(t, db, strategy.ID, types.TemplateTypeEngagement, 10),
		testutil.SeedTemplate(t, db, strategy.ID, types.TemplateTypeTuto, 10),
	}
	restaurant := testutil.SeedRestaurant(t, db, user.ID, &strategy.ID, types.RhythmDaily)
	t.Cleanup(func() {
		db.Where("user_id = ?", user.ID).Delete(&types.Mission{})
		db.Delete(restaurant)
		for _, tpl := range templates {
			db.Unscoped().Delete(tpl)
		}
		db.Delete(strategy)
		db.Delete(user)
	})

	svc := NewMissionService(
		db, log,
		repos.NewMissionRepo(db, log),
		repos.NewMissionTemplateRepo(db, log),
		repos.NewRestaurantRepo(db, log),
		repos.NewTutorialCompletionRepo(db, log),
		nil, nil,
		3000,
	)

	const racers = 8
	results := make([][]*types.Mission, racers)
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.GetTodayMissions(ctx, user.ID)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("racer %d failed: %v", i, err)
		}
	}

	want := missionIDKey(results[0])
	if want == "" {
		t.Fatal("no missions assigned")
	}
	for i := 1; i < racers; i++ {
		if got := missionIDKey(results[i]); got != want {
			t.Fatalf("racer %d saw a different mission set:\n%s\nvs\n%s", i, got, want)
		}
	}

	var count int64
	if err := db.Model(&types.Mission{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if int(count) != len(results[0]) {
		t.Fatalf("%d rows in database, %d returned: duplicates were created", count, len(results[0]))
	}
}

func missionIDKey(missions []*types.Mission) string {
	ids := make([]string, 0, len(missions))
	for _, m := range missions {
		ids = append(ids, m.ID.String())
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}
