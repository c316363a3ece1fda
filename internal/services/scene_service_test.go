package services

import (
	"errors"
	"testing"

	"github.com/storyboard/backend/internal/models"
)

func TestReconcileScenesInsertUpdateDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSceneService(db)
	project := createTestProject(t, db, "Short Film")

	scenes, err := svc.ReconcileProjectScenes(project.ID, []SceneInput{
		{ID: PendingRef(), Content: "EXT. PARK - DAY"},
		{ID: PendingRef(), Content: "INT. CAFE - NIGHT"},
	})
	if err != nil {
		t.Fatalf("initial save failed: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("got %d scenes, want 2", len(scenes))
	}
	if scenes[0].Order != 0 || scenes[1].Order != 1 {
		t.Errorf("orders = %d, %d, want 0, 1", scenes[0].Order, scenes[1].Order)
	}

	// Keep the first, drop the second, add a third
	scenes, err = svc.ReconcileProjectScenes(project.ID, []SceneInput{
		{ID: PersistedRef(scenes[0].ID), Content: "EXT. PARK - DUSK"},
		{ID: PendingRef(), Content: "INT. APARTMENT - NIGHT"},
	})
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("got %d scenes after reconcile, want 2", len(scenes))
	}
	if scenes[0].Content != "EXT. PARK - DUSK" {
		t.Errorf("kept scene content = %q, want updated text", scenes[0].Content)
	}

	var total int64
	db.Model(&models.Scene{}).Where("project_id = ?", project.ID).Count(&total)
	if total != 2 {
		t.Errorf("stored scene count = %d, want 2 (omitted scene deleted)", total)
	}
}

func TestReconcileScenesIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSceneService(db)
	project := createTestProject(t, db, "p")

	first, err := svc.ReconcileProjectScenes(project.ID, []SceneInput{
		{ID: PendingRef(), Content: "one"},
		{ID: PendingRef(), Content: "two"},
	})
	if err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	// Submit the persisted state back unchanged
	resubmit := make([]SceneInput, len(first))
	for i, sc := range first {
		order := sc.Order
		resubmit[i] = SceneInput{ID: PersistedRef(sc.ID), Order: &order, Content: sc.Content}
	}
	second, err := svc.ReconcileProjectScenes(project.ID, resubmit)
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}

	if len(second) != len(first) {
		t.Fatalf("scene count changed from %d to %d", len(first), len(second))
	}
	for i := range first {
		if second[i].ID != first[i].ID {
			t.Errorf("scene %d id changed from %s to %s", i, first[i].ID, second[i].ID)
		}
		if second[i].Order != first[i].Order || second[i].Content != first[i].Content {
			t.Errorf("scene %d content or order changed on resubmit", i)
		}
	}
}

func TestReconcileScenesStaleIDBecomesNew(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSceneService(db)
	project := createTestProject(t, db, "p")

	// A well-formed uuid that exists nowhere in storage
	scenes, err := svc.ReconcileProjectScenes(project.ID, []SceneInput{
		{ID: PersistedRef("3c1d2e3f-4a5b-6c7d-8e9f-0a1b2c3d4e5f"), Content: "ghost"},
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(scenes) != 1 {
		t.Fatalf("got %d scenes, want 1", len(scenes))
	}
	if scenes[0].ID == "3c1d2e3f-4a5b-6c7d-8e9f-0a1b2c3d4e5f" {
		t.Error("stale id was reused, want a freshly allocated one")
	}
}

func TestReconcileScenesExplicitOrderWins(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSceneService(db)
	project := createTestProject(t, db, "p")

	scenes, err := svc.ReconcileProjectScenes(project.ID, []SceneInput{
		{ID: PendingRef(), Order: intPtr(5), Content: "later"},
		{ID: PendingRef(), Order: intPtr(1), Content: "earlier"},
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if scenes[0].Content != "earlier" || scenes[1].Content != "later" {
		t.Errorf("scenes not sorted by explicit order: %q, %q", scenes[0].Content, scenes[1].Content)
	}
}

func TestReconcileScenesAssetLinks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSceneService(db)
	project := createTestProject(t, db, "p")
	asset := createTestAsset(t, db, project.ID, "moodboard.png")

	scenes, err := svc.ReconcileProjectScenes(project.ID, []SceneInput{
		{ID: PendingRef(), Content: "one", Assets: []AssetRefInput{
			{ID: asset.ID},
			{ID: asset.ID}, // duplicate collapses to one link
			{ID: "no-such-asset"},
			{},
		}},
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(scenes[0].Assets) != 1 {
		t.Fatalf("got %d linked assets, want 1", len(scenes[0].Assets))
	}
	if scenes[0].Assets[0].ID != asset.ID {
		t.Errorf("linked asset = %s, want %s", scenes[0].Assets[0].ID, asset.ID)
	}

	var links int64
	db.Model(&models.SceneAsset{}).Where("scene_id = ?", scenes[0].ID).Count(&links)
	if links != 1 {
		t.Errorf("stored link count = %d, want 1", links)
	}

	// Resubmitting with an empty asset list clears the links
	scenes, err = svc.ReconcileProjectScenes(project.ID, []SceneInput{
		{ID: PersistedRef(scenes[0].ID), Content: "one"},
	})
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if len(scenes[0].Assets) != 0 {
		t.Errorf("got %d linked assets after clear, want 0", len(scenes[0].Assets))
	}
}

func TestReconcileScenesAssetOrderFollowsSubmission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSceneService(db)
	project := createTestProject(t, db, "p")
	first := createTestAsset(t, db, project.ID, "board-a.png")
	second := createTestAsset(t, db, project.ID, "board-b.png")

	payload := func(sceneRef ClientRef) []SceneInput {
		return []SceneInput{
			{ID: sceneRef, Content: "one", Assets: []AssetRefInput{
				{ID: first.ID},
				{ID: second.ID},
			}},
		}
	}

	scenes, err := svc.ReconcileProjectScenes(project.ID, payload(PendingRef()))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	assertAssetOrder(t, scenes[0].Assets, first.ID, second.ID)

	// Identical resubmits rewrite every link row; returned order must not
	// drift with the fresh link ids.
	for i := 0; i < 3; i++ {
		scenes, err = svc.ReconcileProjectScenes(project.ID, payload(PersistedRef(scenes[0].ID)))
		if err != nil {
			t.Fatalf("resubmit %d failed: %v", i, err)
		}
		assertAssetOrder(t, scenes[0].Assets, first.ID, second.ID)
	}

	// Reversing the submitted list reverses the resolved order.
	scenes, err = svc.ReconcileProjectScenes(project.ID, []SceneInput{
		{ID: PersistedRef(scenes[0].ID), Content: "one", Assets: []AssetRefInput{
			{ID: second.ID},
			{ID: first.ID},
		}},
	})
	if err != nil {
		t.Fatalf("reversed resubmit failed: %v", err)
	}
	assertAssetOrder(t, scenes[0].Assets, second.ID, first.ID)
}

func assertAssetOrder(t *testing.T, assets []models.Asset, wantIDs ...string) {
	t.Helper()
	if len(assets) != len(wantIDs) {
		t.Fatalf("got %d linked assets, want %d", len(assets), len(wantIDs))
	}
	for i, want := range wantIDs {
		if assets[i].ID != want {
			t.Fatalf("asset[%d] = %s, want %s", i, assets[i].ID, want)
		}
	}
}

func TestReconcileScenesDeleteCascadesShots(t *testing.T) {
	db := setupTestDB(t)
	sceneSvc := NewSceneService(db)
	shotSvc := NewShotService(db)
	project := createTestProject(t, db, "p")

	scenes, err := sceneSvc.ReconcileProjectScenes(project.ID, []SceneInput{
		{ID: PendingRef(), Content: "doomed"},
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := shotSvc.ReconcileSceneShots(scenes[0].ID, []ShotInput{
		{ID: PendingRef(), Content: "wide establishing"},
	}); err != nil {
		t.Fatalf("shot save failed: %v", err)
	}

	if _, err := sceneSvc.ReconcileProjectScenes(project.ID, []SceneInput{}); err != nil {
		t.Fatalf("empty reconcile failed: %v", err)
	}

	var shots int64
	db.Model(&models.Shot{}).Count(&shots)
	if shots != 0 {
		t.Errorf("shot count = %d after scene delete, want 0", shots)
	}
}

func TestReconcileScenesValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSceneService(db)
	project := createTestProject(t, db, "p")

	if _, err := svc.ReconcileProjectScenes(project.ID, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil list error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.ReconcileProjectScenes("missing-project", []SceneInput{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing project error = %v, want ErrNotFound", err)
	}
}
