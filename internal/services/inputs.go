package services

// SceneInput is one entry of a client-submitted full replacement scene list.
type SceneInput struct {
	ID      ClientRef       `json:"id"`
	Order   *int            `json:"order"`
	Content string          `json:"content"`
	Assets  []AssetRefInput `json:"assets"`
}

// ShotInput is one entry of a client-submitted full replacement shot list.
type ShotInput struct {
	ID          ClientRef       `json:"id"`
	Order       *int            `json:"order"`
	Content     string          `json:"content"`
	Description string          `json:"description"`
	Dialogue    string          `json:"dialogue"`
	ERT         string          `json:"ert"`
	Size        string          `json:"size"`
	Perspective string          `json:"perspective"`
	Movement    string          `json:"movement"`
	Equipment   string          `json:"equipment"`
	FocalLength string          `json:"focalLength"`
	AspectRatio string          `json:"aspectRatio"`
	Notes       string          `json:"notes"`
	Assets      []AssetRefInput `json:"assets"`
}

// AssetRefInput references an already-persisted asset inside a scene or shot
// payload. Clients send either id or assetId.
type AssetRefInput struct {
	ID      string `json:"id"`
	AssetID string `json:"assetId"`
	Order   *int   `json:"order"`
}

// ResolvedID returns the asset identifier the reference carries, empty when
// it cannot be resolved.
func (a AssetRefInput) ResolvedID() string {
	if a.ID != "" {
		return a.ID
	}
	return a.AssetID
}

// orderOrIndex returns the explicit order field when present, falling back to
// the entry's array position.
func orderOrIndex(order *int, index int) int {
	if order != nil {
		return *order
	}
	return index
}
