// Package inventorysvc exposes the admin view of the scooter pool. Staff use
// Set to reflect physical reality (repairs, manual restocks); the booking
// flow never calls it.
package inventorysvc

import (
	"context"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
)

type Store interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, value int) (int, error)
}

type Service interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, value int) (int, error)
}

type service struct{ store Store }

func New(store Store) Service { return &service{store} }

func (s *service) Get(ctx context.Context) (int, error) { return s.store.Get(ctx) }

// Set clamps into [0, MaxFleet]; admins can type whatever they like. The
// repository clamps again in SQL, but the bound is business policy and
// belongs here.
func (s *service) Set(ctx context.Context, value int) (int, error) {
	if value < 0 {
		value = 0
	}
	if value > model.MaxFleet {
		value = model.MaxFleet
	}
	return s.store.Set(ctx, value)
}
