package reports

import (
	"context"

	"github.com/dmitrijs2005/roomstats/internal/server/models"
)

// Repository runs the fixed analytical queries over rooms and students.
type Repository interface {
	RoomList(ctx context.Context) ([]models.RoomStudentCount, error)
	SmallestAverageAge(ctx context.Context, limit int) ([]models.RoomAverageAge, error)
	BiggestAgeDiff(ctx context.Context, limit int) ([]models.RoomAgeDiff, error)
	MixedSex(ctx context.Context) ([]models.RoomMixedSex, error)
}
