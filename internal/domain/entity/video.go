package entity

import (
	"database/sql"
	"time"
)

type ProcessingStatus string

const (
	StatusUploaded        ProcessingStatus = "UPLOADED"
	StatusExtractingAudio ProcessingStatus = "EXTRACTING_AUDIO"
	StatusTranscribing    ProcessingStatus = "TRANSCRIBING"
	StatusGeneratingSteps ProcessingStatus = "GENERATING_STEPS"
	StatusEmbedding       ProcessingStatus = "EMBEDDING"
	StatusCompleted       ProcessingStatus = "COMPLETED"
	StatusFailed          ProcessingStatus = "FAILED"
)

// statusRank defines the forward order of the pipeline. FAILED is terminal
// and reachable from any non-terminal state, so it sits outside the ranking.
var statusRank = map[ProcessingStatus]int{
	StatusUploaded:        0,
	StatusExtractingAudio: 1,
	StatusTranscribing:    2,
	StatusGeneratingSteps: 3,
	StatusEmbedding:       4,
	StatusCompleted:       5,
}

// Rank returns the position of a status in the forward ordering, or -1 for
// FAILED and unknown statuses.
func (s ProcessingStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// IsTerminal reports whether no further transitions are allowed.
func (s ProcessingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from one status to another is legal:
// one step forward in the pipeline order, or to FAILED from any non-terminal
// state. Statuses never regress.
func CanTransition(from, to ProcessingStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StatusFailed {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank == fromRank+1
}

type Video struct {
	ID             string           `db:"id" json:"id"`
	ProjectID      string           `db:"project_id" json:"projectId"`
	OriginalName   string           `db:"original_name" json:"originalName"`
	StoredFilename string           `db:"stored_filename" json:"storedFilename"`
	FilePath       string           `db:"file_path" json:"filePath"`
	AudioPath      sql.NullString   `db:"audio_path" json:"audioPath,omitempty"`
	Description    string           `db:"description" json:"description"`
	Transcription  sql.NullString   `db:"transcription" json:"transcription,omitempty"`
	TutorialSteps  []byte           `db:"tutorial_steps" json:"tutorialSteps,omitempty"` // JSON array of strings
	Status         ProcessingStatus `db:"processing_status" json:"processingStatus"`
	ErrorMessage   sql.NullString   `db:"error_message" json:"errorMessage,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updatedAt"`
}
