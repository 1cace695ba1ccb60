package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"videotutor-api/internal/delivery/http/dto"
	"videotutor-api/internal/domain/entity"
	video "videotutor-api/internal/usecase/video"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type VideoHandler struct {
	videoUsecase *video.VideoUsecase
}

func NewVideoHandler(videoUsecase *video.VideoUsecase) *VideoHandler {
	return &VideoHandler{videoUsecase: videoUsecase}
}

func toVideoInfo(v *entity.Video) dto.VideoInfo {
	info := dto.VideoInfo{
		ID:           v.ID,
		ProjectID:    v.ProjectID,
		OriginalName: v.OriginalName,
		Description:  v.Description,
		Status:       string(v.Status),
		CreatedAt:    v.CreatedAt,
	}
	if v.Transcription.Valid {
		info.Transcription = v.Transcription.String
	}
	if v.ErrorMessage.Valid {
		info.ErrorMessage = v.ErrorMessage.String
	}
	if len(v.TutorialSteps) > 0 {
		var steps []string
		if err := json.Unmarshal(v.TutorialSteps, &steps); err == nil {
			info.TutorialSteps = steps
		}
	}
	return info
}

// Upload godoc
// @Summary      Upload a video
// @Description  Uploads a video and starts the processing pipeline in the background
// @Tags         Videos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        projectId    path      string  true  "Project ID"
// @Param        video        formData  file    true  "Video file"
// @Param        description  formData  string  true  "What the video teaches"
// @Success      201  {object}  dto.UploadVideoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectId}/videos [post]
func (h *VideoHandler) Upload(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	projectID := c.Params("projectId")

	file, err := c.FormFile("video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to get video file"})
	}

	description := c.FormValue("description")
	if description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "description is required"})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open uploaded file"})
	}
	defer src.Close()

	vid, err := h.videoUsecase.Upload(c.Context(), userID, projectID, file.Filename, src, description)
	if err != nil {
		if errors.Is(err, video.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UploadVideoResponse{
		ID:      vid.ID,
		Status:  string(vid.Status),
		Message: "Video uploaded successfully. Processing in background.",
	})
}

// List godoc
// @Summary      List videos
// @Tags         Videos
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path   string  true   "Project ID"
// @Param        page       query  int     false  "Page number" default(1)
// @Param        limit      query  int     false  "Items per page" default(10)
// @Success      200  {object}  dto.ListVideosResponse
// @Router       /api/projects/{projectId}/videos [get]
func (h *VideoHandler) List(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	projectID := c.Params("projectId")

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	videos, total, err := h.videoUsecase.List(c.Context(), userID, projectID, page, limit)
	if err != nil {
		if errors.Is(err, video.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var infos []dto.VideoInfo
	for i := range videos {
		infos = append(infos, toVideoInfo(&videos[i]))
	}

	totalPages := (total + limit - 1) / limit

	return c.Status(fiber.StatusOK).JSON(dto.ListVideosResponse{
		Data: infos,
		Meta: dto.PaginationMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	})
}

// GetByID godoc
// @Summary      Get video by ID
// @Tags         Videos
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path  string  true  "Project ID"
// @Param        id         path  string  true  "Video ID"
// @Success      200  {object}  dto.VideoInfo
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectId}/videos/{id} [get]
func (h *VideoHandler) GetByID(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	projectID := c.Params("projectId")
	videoID := c.Params("id")

	vid, err := h.videoUsecase.GetByID(c.Context(), userID, projectID, videoID)
	if err != nil {
		if errors.Is(err, video.ErrProjectNotFound) || errors.Is(err, video.ErrVideoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(toVideoInfo(vid))
}

// GetStatus godoc
// @Summary      Get current processing status
// @Tags         Videos
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path  string  true  "Project ID"
// @Param        id         path  string  true  "Video ID"
// @Success      200  {object}  dto.VideoStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectId}/videos/{id}/status [get]
func (h *VideoHandler) GetStatus(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	projectID := c.Params("projectId")
	videoID := c.Params("id")

	vid, err := h.videoUsecase.GetByID(c.Context(), userID, projectID, videoID)
	if err != nil {
		if errors.Is(err, video.ErrProjectNotFound) || errors.Is(err, video.ErrVideoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(dto.VideoStatusResponse{
		VideoID:   vid.ID,
		Status:    string(vid.Status),
		Timestamp: vid.UpdatedAt,
	})
}

// StreamEvents godoc
// @Summary      Stream status events
// @Description  Server-sent events feed of status transitions; ends after COMPLETED or FAILED
// @Tags         Videos
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        projectId  path  string  true  "Project ID"
// @Param        id         path  string  true  "Video ID"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectId}/videos/{id}/events [get]
func (h *VideoHandler) StreamEvents(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	projectID := c.Params("projectId")
	videoID := c.Params("id")

	// subscription outlives the fiber handler, so it gets its own context
	// cancelled when the stream writer returns
	ctx, cancel := context.WithCancel(context.Background())

	events, err := h.videoUsecase.WatchStatus(ctx, userID, projectID, videoID)
	if err != nil {
		cancel()
		if errors.Is(err, video.ErrProjectNotFound) || errors.Is(err, video.ErrVideoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for event := range events {
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			if err := w.Flush(); err != nil {
				// client disconnected; cancel() stops the watcher
				return
			}
		}
	}))

	return nil
}

// Delete godoc
// @Summary      Delete a video
// @Description  Removes files and the vector point best effort, then the record
// @Tags         Videos
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path  string  true  "Project ID"
// @Param        id         path  string  true  "Video ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectId}/videos/{id} [delete]
func (h *VideoHandler) Delete(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	projectID := c.Params("projectId")
	videoID := c.Params("id")

	if err := h.videoUsecase.Delete(c.Context(), userID, projectID, videoID); err != nil {
		if errors.Is(err, video.ErrProjectNotFound) || errors.Is(err, video.ErrVideoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Video deleted successfully"})
}
