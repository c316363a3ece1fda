package services

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/storyboard/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SceneView is a scene with its linked assets resolved to full records.
// Shots are only populated by the project aggregate reader.
type SceneView struct {
	models.Scene
	Assets []models.Asset `json:"assets"`
	Shots  []ShotView     `json:"shots,omitempty"`
}

type SceneService struct {
	db *gorm.DB
}

func NewSceneService(db *gorm.DB) *SceneService {
	return &SceneService{db: db}
}

// ReconcileProjectScenes replaces the project's scene list with the submitted
// one: persisted scenes absent from the list are deleted (cascading their
// shots and links), pending or unknown identifiers become inserts with fresh
// ids, and the rest are updated in place in submitted order. Each scene's
// asset link set is replaced wholesale. The whole reconciliation runs in one
// transaction; on failure no partial scene set is ever visible.
func (s *SceneService) ReconcileProjectScenes(projectID string, incoming []SceneInput) ([]SceneView, error) {
	if incoming == nil {
		return nil, fmt.Errorf("%w: scene list must be an array", ErrInvalidInput)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.reconcileScenes(tx, projectID, incoming)
	})
	if err != nil {
		return nil, err
	}

	return s.ListProjectScenes(projectID)
}

// reconcileScenes is the transactional core of scene reconciliation. It runs
// on the caller's transaction so project creation and the first scene save
// can commit or roll back together.
func (s *SceneService) reconcileScenes(tx *gorm.DB, projectID string, incoming []SceneInput) error {
	var exists int64
	if err := tx.Model(&models.Project{}).Where("id = ?", projectID).Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	var persistedIDs []string
	if err := tx.Model(&models.Scene{}).Where("project_id = ?", projectID).Pluck("id", &persistedIDs).Error; err != nil {
		return err
	}
	persisted := make(map[string]bool, len(persistedIDs))
	for _, id := range persistedIDs {
		persisted[id] = true
	}

	incomingIDs := make(map[string]bool, len(incoming))
	for _, in := range incoming {
		if !in.ID.Pending() {
			incomingIDs[in.ID.ID()] = true
		}
	}

	var toDelete []string
	for _, id := range persistedIDs {
		if !incomingIDs[id] {
			toDelete = append(toDelete, id)
		}
	}
	if len(toDelete) > 0 {
		if err := tx.Where("id IN ?", toDelete).Delete(&models.Scene{}).Error; err != nil {
			return err
		}
	}

	for i, in := range incoming {
		id, isNew := in.ID.Resolve(persisted)
		order := orderOrIndex(in.Order, i)

		if isNew {
			scene := models.Scene{
				ID:        id,
				ProjectID: projectID,
				Order:     order,
				Content:   in.Content,
			}
			if err := tx.Create(&scene).Error; err != nil {
				return err
			}
		} else {
			updates := map[string]interface{}{
				"scene_order": order,
				"content":     in.Content,
			}
			if err := tx.Model(&models.Scene{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		if err := replaceSceneAssets(tx, id, in.Assets); err != nil {
			return err
		}
	}
	return nil
}

// ListProjectScenes returns the project's scenes ascending by order, each with
// its linked assets resolved.
func (s *SceneService) ListProjectScenes(projectID string) ([]SceneView, error) {
	var scenes []models.Scene
	if err := s.db.Where("project_id = ?", projectID).Order("scene_order ASC").Find(&scenes).Error; err != nil {
		return nil, err
	}

	views := make([]SceneView, len(scenes))
	sceneIDs := make([]string, len(scenes))
	for i, sc := range scenes {
		views[i] = SceneView{Scene: sc, Assets: []models.Asset{}}
		sceneIDs[i] = sc.ID
	}
	if len(sceneIDs) == 0 {
		return views, nil
	}

	assetsByScene, err := sceneAssetsByScene(s.db, sceneIDs)
	if err != nil {
		return nil, err
	}
	for i := range views {
		if linked, ok := assetsByScene[views[i].ID]; ok {
			views[i].Assets = linked
		}
	}
	return views, nil
}

// replaceSceneAssets swaps a scene's full link set. Link replacement is
// delete-all-then-insert-all, never an incremental diff. References that
// carry no id or point at an unknown asset are skipped so one bad reference
// cannot block the rest of the batch.
func replaceSceneAssets(tx *gorm.DB, sceneID string, refs []AssetRefInput) error {
	if err := tx.Where("scene_id = ?", sceneID).Delete(&models.SceneAsset{}).Error; err != nil {
		return err
	}

	seen := make(map[string]bool, len(refs))
	for i, ref := range refs {
		assetID := ref.ResolvedID()
		if assetID == "" {
			log.WithField("scene_id", sceneID).Warn("scene save: skipping asset reference with no id")
			continue
		}
		if seen[assetID] {
			log.WithFields(log.Fields{"scene_id": sceneID, "asset_id": assetID}).
				Warn("scene save: skipping duplicate asset link")
			continue
		}
		var known int64
		if err := tx.Model(&models.Asset{}).Where("id = ?", assetID).Count(&known).Error; err != nil {
			return err
		}
		if known == 0 {
			log.WithFields(log.Fields{"scene_id": sceneID, "asset_id": assetID}).
				Warn("scene save: skipping unresolvable asset reference")
			continue
		}
		link := models.SceneAsset{SceneID: sceneID, AssetID: assetID, AssetOrder: orderOrIndex(ref.Order, i)}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
		seen[assetID] = true
	}
	return nil
}

// sceneAssetsByScene resolves scene-asset links to full asset records, keyed
// by scene id, in the order the links were submitted.
func sceneAssetsByScene(db *gorm.DB, sceneIDs []string) (map[string][]models.Asset, error) {
	var links []models.SceneAsset
	if err := db.Where("scene_id IN ?", sceneIDs).Order("asset_order ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]models.Asset)
	if len(links) == 0 {
		return out, nil
	}

	assetIDs := make([]string, 0, len(links))
	for _, l := range links {
		assetIDs = append(assetIDs, l.AssetID)
	}
	var assets []models.Asset
	if err := db.Where("id IN ?", assetIDs).Find(&assets).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.Asset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}

	for _, l := range links {
		if a, ok := byID[l.AssetID]; ok {
			out[l.SceneID] = append(out[l.SceneID], a)
		}
	}
	return out, nil
}
