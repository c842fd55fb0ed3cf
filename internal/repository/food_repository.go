package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/diet-tracker/internal/domain"
)

// FoodRepository defines persistence access for food entries.
type FoodRepository interface {
	Create(ctx context.Context, food *domain.Food) error
	Update(ctx context.Context, food *domain.Food) error
	GetByID(ctx context.Context, id string) (*domain.Food, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Food, error)
	ListAll(ctx context.Context) ([]domain.FoodWithCreator, error)
	// SumCalories totals non-cheat entries consumed in [from, to).
	SumCalories(ctx context.Context, creatorID string, from, to time.Time) (float64, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

type foodRepository struct {
	pool *pgxpool.Pool
}

// NewFoodRepository returns a Postgres-backed implementation.
func NewFoodRepository(pool *pgxpool.Pool) FoodRepository {
	return &foodRepository{pool: pool}
}

const foodColumns = `id, product_name, time_consumed, calorie, is_cheat_food, creator_id, created_at, updated_at`

func (r *foodRepository) Create(ctx context.Context, food *domain.Food) error {
	const query = `
        INSERT INTO foods (product_name, time_consumed, calorie, is_cheat_food, creator_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		food.ProductName,
		food.TimeConsumed,
		food.Calorie,
		food.IsCheatFood,
		food.CreatorID,
	).Scan(&food.ID, &food.CreatedAt, &food.UpdatedAt)
}

func (r *foodRepository) Update(ctx context.Context, food *domain.Food) error {
	const query = `
        UPDATE foods SET product_name=$1, time_consumed=$2, calorie=$3, is_cheat_food=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		food.ProductName,
		food.TimeConsumed,
		food.Calorie,
		food.IsCheatFood,
		food.ID,
	).Scan(&food.UpdatedAt)
	return normalizeIDErr(err)
}

func (r *foodRepository) GetByID(ctx context.Context, id string) (*domain.Food, error) {
	query := `SELECT ` + foodColumns + ` FROM foods WHERE id=$1`
	food, err := scanFood(r.pool.QueryRow(ctx, query, id))
	return food, normalizeIDErr(err)
}

func (r *foodRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.Food, error) {
	query := `SELECT ` + foodColumns + ` FROM foods WHERE creator_id=$1 ORDER BY time_consumed DESC`
	rows, err := r.pool.Query(ctx, query, creatorID)
	if err != nil {
		if normalizeIDErr(err) == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	var foods []domain.Food
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, *food)
	}
	return foods, rows.Err()
}

func (r *foodRepository) ListAll(ctx context.Context) ([]domain.FoodWithCreator, error) {
	const query = `
        SELECT f.id, f.product_name, f.time_consumed, f.calorie, f.is_cheat_food, f.creator_id,
               f.created_at, f.updated_at, u.first_name, u.last_name, u.email
        FROM foods f
        LEFT JOIN users u ON u.id = f.creator_id
        ORDER BY f.time_consumed DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FoodWithCreator
	for rows.Next() {
		var (
			item                       domain.FoodWithCreator
			firstName, lastName, email *string
		)
		if err := rows.Scan(
			&item.ID,
			&item.ProductName,
			&item.TimeConsumed,
			&item.Calorie,
			&item.IsCheatFood,
			&item.CreatorID,
			&item.CreatedAt,
			&item.UpdatedAt,
			&firstName,
			&lastName,
			&email,
		); err != nil {
			return nil, err
		}
		if email != nil {
			item.Creator = &domain.User{ID: item.CreatorID, FirstName: deref(firstName), LastName: deref(lastName), Email: *email}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *foodRepository) SumCalories(ctx context.Context, creatorID string, from, to time.Time) (float64, error) {
	const query = `
        SELECT COALESCE(SUM(calorie), 0) FROM foods
        WHERE creator_id=$1 AND NOT is_cheat_food AND time_consumed >= $2 AND time_consumed < $3`

	var total float64
	err := r.pool.QueryRow(ctx, query, creatorID, from, to).Scan(&total)
	return total, err
}

func (r *foodRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM foods WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		if normalizeIDErr(err) == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanFood(row pgx.Row) (*domain.Food, error) {
	var food domain.Food
	if err := row.Scan(
		&food.ID,
		&food.ProductName,
		&food.TimeConsumed,
		&food.Calorie,
		&food.IsCheatFood,
		&food.CreatorID,
		&food.CreatedAt,
		&food.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &food, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
