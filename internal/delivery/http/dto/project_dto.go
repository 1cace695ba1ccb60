package dto

import "time"

type CreateProjectRequest struct {
	Name string `json:"name"`
}

type ProjectInfo struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	CollectionName string    `json:"collectionName"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ListProjectsResponse struct {
	Data []ProjectInfo `json:"data"`
}
