package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vkravchuk/courseshop/internal/domain"
)

const courseColumns = `id, name_en, name_uk, description_en, description_uk,
	price_uah, price_usd, file_id, created_at, updated_at`

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO courses (name_en, name_uk, description_en, description_uk,
		                     price_uah, price_usd, file_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+courseColumns,
		course.Name.EN, course.Name.UK,
		course.Description.EN, course.Description.UK,
		course.Price.UAH, course.Price.USD, course.FileID,
	)
	return scanCourse(row)
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	return scanCourse(row)
}

func (r *CourseRepository) List(ctx context.Context) ([]*domain.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+courseColumns+` FROM courses ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []*domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *CourseRepository) Update(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE courses
		SET    name_en        = $2,
		       name_uk        = $3,
		       description_en = $4,
		       description_uk = $5,
		       price_uah      = $6,
		       price_usd      = $7,
		       file_id        = $8,
		       updated_at     = NOW()
		WHERE id = $1
		RETURNING `+courseColumns,
		course.ID,
		course.Name.EN, course.Name.UK,
		course.Description.EN, course.Description.UK,
		course.Price.UAH, course.Price.USD, course.FileID,
	)
	return scanCourse(row)
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var c domain.Course
	err := row.Scan(
		&c.ID, &c.Name.EN, &c.Name.UK,
		&c.Description.EN, &c.Description.UK,
		&c.Price.UAH, &c.Price.USD, &c.FileID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("scan course: %w", err)
	}
	return &c, nil
}
