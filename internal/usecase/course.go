package usecase

import (
	"context"
	"fmt"

	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/repository"
)

type CourseUsecase struct {
	repo repository.CourseRepository
}

func NewCourseUsecase(repo repository.CourseRepository) *CourseUsecase {
	return &CourseUsecase{repo: repo}
}

type CreateCourseInput struct {
	Name        domain.LocalizedText
	Description domain.LocalizedText
	Price       domain.Price
	FileID      string
}

func (u *CourseUsecase) Create(ctx context.Context, input CreateCourseInput) (*domain.Course, error) {
	course, err := u.repo.Create(ctx, &domain.Course{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		FileID:      input.FileID,
	})
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return course, nil
}

func (u *CourseUsecase) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	return u.repo.FindByID(ctx, id)
}

func (u *CourseUsecase) List(ctx context.Context) ([]*domain.Course, error) {
	return u.repo.List(ctx)
}

// UpdateCourseInput overlays only the fields present in the request.
type UpdateCourseInput struct {
	Name        *domain.LocalizedText
	Description *domain.LocalizedText
	Price       *domain.Price
	FileID      *string
}

func (u *CourseUsecase) Update(ctx context.Context, id string, input UpdateCourseInput) (*domain.Course, error) {
	course, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		course.Name = *input.Name
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Price != nil {
		course.Price = *input.Price
	}
	if input.FileID != nil {
		course.FileID = *input.FileID
	}

	updated, err := u.repo.Update(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	return updated, nil
}

func (u *CourseUsecase) Delete(ctx context.Context, id string) error {
	return u.repo.Delete(ctx, id)
}
