package handler

import (
	"errors"

	"videotutor-api/internal/delivery/http/dto"
	"videotutor-api/internal/usecase/project"

	"github.com/gofiber/fiber/v2"
)

type ProjectHandler struct {
	projectUsecase *project.ProjectUsecase
}

func NewProjectHandler(projectUsecase *project.ProjectUsecase) *ProjectHandler {
	return &ProjectHandler{projectUsecase: projectUsecase}
}

// Create godoc
// @Summary      Create a project
// @Description  Creates a project and derives its vector collection name
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateProjectRequest  true  "Project payload"
// @Success      201  {object}  dto.ProjectInfo
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	proj, err := h.projectUsecase.Create(c.Context(), userID, req.Name)
	if err != nil {
		if errors.Is(err, project.ErrNameTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, project.ErrInvalidName) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ProjectInfo{
		ID:             proj.ID,
		Name:           proj.Name,
		CollectionName: proj.CollectionName,
		CreatedAt:      proj.CreatedAt,
	})
}

// List godoc
// @Summary      List projects
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ListProjectsResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	projects, err := h.projectUsecase.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var infos []dto.ProjectInfo
	for _, proj := range projects {
		infos = append(infos, dto.ProjectInfo{
			ID:             proj.ID,
			Name:           proj.Name,
			CollectionName: proj.CollectionName,
			CreatedAt:      proj.CreatedAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(dto.ListProjectsResponse{Data: infos})
}

// GetByID godoc
// @Summary      Get project by ID
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Project ID"
// @Success      200  {object}  dto.ProjectInfo
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) GetByID(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	projectID := c.Params("id")

	proj, err := h.projectUsecase.GetByID(c.Context(), userID, projectID)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(dto.ProjectInfo{
		ID:             proj.ID,
		Name:           proj.Name,
		CollectionName: proj.CollectionName,
		CreatedAt:      proj.CreatedAt,
	})
}

// Delete godoc
// @Summary      Delete a project
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Project ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	projectID := c.Params("id")

	if err := h.projectUsecase.Delete(c.Context(), userID, projectID); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Project deleted successfully"})
}
