package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/usecase"
)

type courseUsecaser interface {
	Create(ctx context.Context, input usecase.CreateCourseInput) (*domain.Course, error)
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	Update(ctx context.Context, id string, input usecase.UpdateCourseInput) (*domain.Course, error)
	Delete(ctx context.Context, id string) error
}

type CourseHandler struct {
	courses courseUsecaser
	logger  *slog.Logger
}

func NewCourseHandler(courses courseUsecaser, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, logger: logger.With("component", "course_handler")}
}

type courseResponse struct {
	ID          string               `json:"id"`
	Name        domain.LocalizedText `json:"name"`
	Description domain.LocalizedText `json:"description"`
	Price       domain.Price         `json:"price"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// The Drive file ID stays server-side; buyers reach the file through the
// access grant, never the raw ID.
func newCourseResponse(c *domain.Course) courseResponse {
	return courseResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// GET /courses
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list courses", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, newCourseResponse(course))
	}
	c.JSON(http.StatusOK, gin.H{"results": len(out), "courses": out})
}

// GET /courses/:id
func (h *CourseHandler) GetByID(c *gin.Context) {
	course, err := h.courses.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if respondError(c, err) {
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get course", "course_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": newCourseResponse(course)})
}

type createCourseRequest struct {
	Name        domain.LocalizedText `json:"name"        binding:"required"`
	Description domain.LocalizedText `json:"description"`
	Price       domain.Price         `json:"price"       binding:"required"`
	FileID      string               `json:"fileId"`
}

// POST /courses  (admin)
func (h *CourseHandler) Create(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courses.Create(c.Request.Context(), usecase.CreateCourseInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		FileID:      req.FileID,
	})
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "create course", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"course": newCourseResponse(course)})
}

type updateCourseRequest struct {
	Name        *domain.LocalizedText `json:"name"`
	Description *domain.LocalizedText `json:"description"`
	Price       *domain.Price         `json:"price"`
	FileID      *string               `json:"fileId"`
}

// PATCH /courses/:id  (admin)
func (h *CourseHandler) Update(c *gin.Context) {
	var req updateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courses.Update(c.Request.Context(), c.Param("id"), usecase.UpdateCourseInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		FileID:      req.FileID,
	})
	if err != nil {
		if respondError(c, err) {
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "update course", "course_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"course": newCourseResponse(course)})
}

// DELETE /courses/:id  (admin)
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if respondError(c, err) {
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete course", "course_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.Status(http.StatusNoContent)
}
