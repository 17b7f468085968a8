package service

import (
	"context"

	"github.com/unitree-app/unitree-server/internal/model"
	"github.com/unitree-app/unitree-server/internal/repository"
)

type PointsService interface {
	Balance(ctx context.Context, userUID string) (points int64, treesPlanted int, err error)
	History(ctx context.Context, userUID string, limit int) ([]model.PointTransaction, error)
}

type pointsService struct {
	users  repository.UserRepository
	points repository.PointRepository
}

func NewPointsService(users repository.UserRepository, points repository.PointRepository) PointsService {
	return &pointsService{users: users, points: points}
}

func (s *pointsService) Balance(ctx context.Context, userUID string) (int64, int, error) {
	u, err := s.users.Get(ctx, userUID)
	if err != nil {
		return 0, 0, err
	}
	return u.Points, u.TreesPlanted, nil
}

func (s *pointsService) History(ctx context.Context, userUID string, limit int) ([]model.PointTransaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.points.ListByUser(ctx, userUID, limit)
}
