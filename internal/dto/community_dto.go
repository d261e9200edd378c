package dto

type CreatePostRequest struct {
	SightingID *uint  `json:"sighting_id,omitempty"`
	StrayID    *uint  `json:"stray_id,omitempty"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type ReactionRequest struct {
	Emoji string `json:"emoji"`
}

type SuggestNameRequest struct {
	Name string `json:"name"`
}

type CreateBountyRequest struct {
	Amount int    `json:"amount"`
	Note   string `json:"note,omitempty"`
}

type CleanupRequest struct {
	MaxAgeHours float64 `json:"maxAgeHours,omitempty"`
}

type CleanupResponse struct {
	Success      bool `json:"success"`
	DeletedCount int  `json:"deletedCount"`
}

type StageSessionResponse struct {
	SessionID string `json:"session_id"`
}

type StageUploadResponse struct {
	Key string `json:"key"`
}
