package dto

import "time"

type UploadVideoResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type VideoInfo struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"projectId"`
	OriginalName  string    `json:"originalName"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	Transcription string    `json:"transcription,omitempty"`
	TutorialSteps []string  `json:"tutorialSteps,omitempty"`
	ErrorMessage  string    `json:"errorMessage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ListVideosResponse struct {
	Data []VideoInfo    `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type PaginationMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type VideoStatusResponse struct {
	VideoID   string    `json:"videoId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
