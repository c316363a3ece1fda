package services

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/storyboard/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShotAssetView is an asset as attached to a shot, carrying the link ordinal.
// Shot-asset order is independent of scene-asset order.
type ShotAssetView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	MimeType string `json:"type"`
	Order    int    `json:"order"`
}

// ShotView is a shot with its attached assets in ordinal order.
type ShotView struct {
	models.Shot
	Assets []ShotAssetView `json:"assets"`
}

// ShotPropsInput is a field-wise patch for a single shot. Only non-nil fields
// are applied; ordering and assets are managed through reconciliation.
type ShotPropsInput struct {
	Content     *string `json:"content"`
	Description *string `json:"description"`
	Dialogue    *string `json:"dialogue"`
	ERT         *string `json:"ert"`
	Size        *string `json:"size"`
	Perspective *string `json:"perspective"`
	Movement    *string `json:"movement"`
	Equipment   *string `json:"equipment"`
	FocalLength *string `json:"focalLength"`
	AspectRatio *string `json:"aspectRatio"`
	Notes       *string `json:"notes"`
}

type ShotService struct {
	db *gorm.DB
}

func NewShotService(db *gorm.DB) *ShotService {
	return &ShotService{db: db}
}

// ReconcileSceneShots replaces a scene's shot list with the submitted one,
// mirroring scene reconciliation one level deeper: delete-missing, insert-new,
// update-existing in submitted order, then replace each shot's asset link set
// preserving the per-link ordinal. One transaction, no partial shot set.
func (s *ShotService) ReconcileSceneShots(sceneID string, incoming []ShotInput) ([]ShotView, error) {
	if incoming == nil {
		return nil, fmt.Errorf("%w: shot list must be an array", ErrInvalidInput)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Scene{}).Where("id = ?", sceneID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}

		var persistedIDs []string
		if err := tx.Model(&models.Shot{}).Where("scene_id = ?", sceneID).Pluck("id", &persistedIDs).Error; err != nil {
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
			if err := tx.Where("id IN ?", toDelete).Delete(&models.Shot{}).Error; err != nil {
				return err
			}
		}

		for i, in := range incoming {
			id, isNew := in.ID.Resolve(persisted)
			order := orderOrIndex(in.Order, i)

			if isNew {
				shot := models.Shot{
					ID:          id,
					SceneID:     sceneID,
					Order:       order,
					Content:     in.Content,
					Description: in.Description,
					Dialogue:    in.Dialogue,
					ERT:         in.ERT,
					Size:        in.Size,
					Perspective: in.Perspective,
					Movement:    in.Movement,
					Equipment:   in.Equipment,
					FocalLength: in.FocalLength,
					AspectRatio: in.AspectRatio,
					Notes:       in.Notes,
				}
				if err := tx.Create(&shot).Error; err != nil {
					return err
				}
			} else {
				updates := map[string]interface{}{
					"shot_order":   order,
					"content":      in.Content,
					"description":  in.Description,
					"dialogue":     in.Dialogue,
					"ert":          in.ERT,
					"size":         in.Size,
					"perspective":  in.Perspective,
					"movement":     in.Movement,
					"equipment":    in.Equipment,
					"focal_length": in.FocalLength,
					"aspect_ratio": in.AspectRatio,
					"notes":        in.Notes,
				}
				if err := tx.Model(&models.Shot{}).Where("id = ?", id).Updates(updates).Error; err != nil {
					return err
				}
			}

			if err := replaceShotAssets(tx, id, in.Assets); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.ListShotsByScene(sceneID)
}

// ListShotsByScene returns the scene's shots ascending by order with their
// assets resolved and ordered by link ordinal.
func (s *ShotService) ListShotsByScene(sceneID string) ([]ShotView, error) {
	byScene, err := s.ListShotsByScenes([]string{sceneID})
	if err != nil {
		return nil, err
	}
	if views, ok := byScene[sceneID]; ok {
		return views, nil
	}
	return []ShotView{}, nil
}

// ListShotsByScenes batch-loads shots and their assets for a set of scenes,
// keyed by scene id. Scenes without shots have no entry.
func (s *ShotService) ListShotsByScenes(sceneIDs []string) (map[string][]ShotView, error) {
	out := make(map[string][]ShotView)
	if len(sceneIDs) == 0 {
		return out, nil
	}

	var shots []models.Shot
	if err := s.db.Where("scene_id IN ?", sceneIDs).Order("scene_id, shot_order ASC").Find(&shots).Error; err != nil {
		return nil, err
	}
	if len(shots) == 0 {
		return out, nil
	}

	shotIDs := make([]string, len(shots))
	for i, sh := range shots {
		shotIDs[i] = sh.ID
	}
	assetsByShot, err := shotAssetsByShot(s.db, shotIDs)
	if err != nil {
		return nil, err
	}

	for _, sh := range shots {
		view := ShotView{Shot: sh, Assets: []ShotAssetView{}}
		if linked, ok := assetsByShot[sh.ID]; ok {
			view.Assets = linked
		}
		out[sh.SceneID] = append(out[sh.SceneID], view)
	}
	return out, nil
}

// GetShot returns a single shot with its assets.
func (s *ShotService) GetShot(id string) (*ShotView, error) {
	var shot models.Shot
	if err := s.db.First(&shot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	assetsByShot, err := shotAssetsByShot(s.db, []string{shot.ID})
	if err != nil {
		return nil, err
	}
	view := ShotView{Shot: shot, Assets: []ShotAssetView{}}
	if linked, ok := assetsByShot[shot.ID]; ok {
		view.Assets = linked
	}
	return &view, nil
}

// UpdateShotProperties patches a shot's descriptive fields. Scene ownership,
// ordering and assets are not touched here.
func (s *ShotService) UpdateShotProperties(id string, in ShotPropsInput) (*ShotView, error) {
	updates := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	set("content", in.Content)
	set("description", in.Description)
	set("dialogue", in.Dialogue)
	set("ert", in.ERT)
	set("size", in.Size)
	set("perspective", in.Perspective)
	set("movement", in.Movement)
	set("equipment", in.Equipment)
	set("focal_length", in.FocalLength)
	set("aspect_ratio", in.AspectRatio)
	set("notes", in.Notes)

	if len(updates) > 0 {
		result := s.db.Model(&models.Shot{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetShot(id)
}

// UpdateShotAssets replaces a shot's asset link set from a flat id list; the
// list position becomes the link ordinal.
func (s *ShotService) UpdateShotAssets(shotID string, assetIDs []string) (*ShotView, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Shot{}).Where("id = ?", shotID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		refs := make([]AssetRefInput, len(assetIDs))
		for i, id := range assetIDs {
			refs[i] = AssetRefInput{ID: id}
		}
		return replaceShotAssets(tx, shotID, refs)
	})
	if err != nil {
		return nil, err
	}
	return s.GetShot(shotID)
}

// DeleteShot removes one shot and its asset links.
func (s *ShotService) DeleteShot(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Shot{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// replaceShotAssets swaps a shot's full link set, preserving an explicit
// ordinal per link (payload order field, array position otherwise). Bad
// references are skipped so they cannot block the rest of the batch.
func replaceShotAssets(tx *gorm.DB, shotID string, refs []AssetRefInput) error {
	if err := tx.Where("shot_id = ?", shotID).Delete(&models.ShotAsset{}).Error; err != nil {
		return err
	}

	seen := make(map[string]bool, len(refs))
	for i, ref := range refs {
		assetID := ref.ResolvedID()
		if assetID == "" {
			log.WithField("shot_id", shotID).Warn("shot save: skipping asset reference with no id")
			continue
		}
		if seen[assetID] {
			log.WithFields(log.Fields{"shot_id": shotID, "asset_id": assetID}).
				Warn("shot save: skipping duplicate asset link")
			continue
		}
		var known int64
		if err := tx.Model(&models.Asset{}).Where("id = ?", assetID).Count(&known).Error; err != nil {
			return err
		}
		if known == 0 {
			log.WithFields(log.Fields{"shot_id": shotID, "asset_id": assetID}).
				Warn("shot save: skipping unresolvable asset reference")
			continue
		}
		link := models.ShotAsset{
			ShotID:     shotID,
			AssetID:    assetID,
			AssetOrder: orderOrIndex(ref.Order, i),
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
		seen[assetID] = true
	}
	return nil
}

// shotAssetsByShot resolves shot-asset links to view records keyed by shot id,
// ascending by ordinal.
func shotAssetsByShot(db *gorm.DB, shotIDs []string) (map[string][]ShotAssetView, error) {
	var links []models.ShotAsset
	if err := db.Where("shot_id IN ?", shotIDs).Order("asset_order ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]ShotAssetView)
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
		a, ok := byID[l.AssetID]
		if !ok {
			continue
		}
		out[l.ShotID] = append(out[l.ShotID], ShotAssetView{
			ID:       a.ID,
			Name:     a.Name,
			URL:      a.URL,
			MimeType: a.MimeType,
			Order:    l.AssetOrder,
		})
	}
	return out, nil
}
