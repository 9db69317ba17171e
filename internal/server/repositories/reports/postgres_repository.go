// Package reports holds the analytical queries. Every query joins rooms to
// students, so rooms without students never appear in a report.
package reports

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/roomstats/internal/dbx"
	"github.com/dmitrijs2005/roomstats/internal/server/models"
)

// secondsPerYear is a Julian year, used to turn age() intervals into years.
const secondsPerYear = 31557600

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) RoomList(ctx context.Context) ([]models.RoomStudentCount, error) {
	query :=
		`SELECT r.id, r.name, COUNT(s.id)
		 FROM rooms AS r
		 INNER JOIN students AS s ON r.id = s.room
		 GROUP BY r.id, r.name
		 ORDER BY r.id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.RoomStudentCount, 0)
	for rows.Next() {
		var item models.RoomStudentCount
		if err := rows.Scan(&item.RoomID, &item.Room, &item.Students); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SmallestAverageAge(ctx context.Context, limit int) ([]models.RoomAverageAge, error) {
	query := fmt.Sprintf(
		`SELECT r.id, r.name,
		        ROUND((AVG(EXTRACT(EPOCH FROM age(s.birthday))) / %d)::numeric, 2)::float8
		 FROM rooms AS r
		 INNER JOIN students AS s ON r.id = s.room
		 GROUP BY r.id, r.name
		 ORDER BY AVG(EXTRACT(EPOCH FROM age(s.birthday))) ASC, r.id
		 LIMIT $1
		 `, secondsPerYear)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.RoomAverageAge, 0, limit)
	for rows.Next() {
		var item models.RoomAverageAge
		if err := rows.Scan(&item.RoomID, &item.Room, &item.AverageAge); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) BiggestAgeDiff(ctx context.Context, limit int) ([]models.RoomAgeDiff, error) {
	query :=
		`SELECT r.id, r.name, (MAX(s.birthday)::date - MIN(s.birthday)::date) AS age_diff_days
		 FROM rooms AS r
		 INNER JOIN students AS s ON r.id = s.room
		 GROUP BY r.id, r.name
		 ORDER BY age_diff_days DESC, r.id
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.RoomAgeDiff, 0, limit)
	for rows.Next() {
		var item models.RoomAgeDiff
		if err := rows.Scan(&item.RoomID, &item.Room, &item.AgeDiffDays); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) MixedSex(ctx context.Context) ([]models.RoomMixedSex, error) {
	query :=
		`SELECT r.id, r.name
		 FROM rooms AS r
		 INNER JOIN students AS s ON r.id = s.room
		 GROUP BY r.id, r.name
		 HAVING COUNT(*) FILTER (WHERE s.sex = $1) > 0
		    AND COUNT(*) FILTER (WHERE s.sex = $2) > 0
		 ORDER BY r.id
		 `

	rows, err := r.db.QueryContext(ctx, query, models.SexFemale, models.SexMale)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.RoomMixedSex, 0)
	for rows.Next() {
		var item models.RoomMixedSex
		if err := rows.Scan(&item.RoomID, &item.Room); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}
