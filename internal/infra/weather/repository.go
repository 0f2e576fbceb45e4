package weather

import (
	"context"
)

//go:generate mockgen -source=repository.go -destination=mock.go -package=weather

type Repository interface {
	CurrentConditions(ctx context.Context, city string) (*Conditions, error)
}
