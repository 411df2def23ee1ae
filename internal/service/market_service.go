package service

import (
	"context"

	"fsanano/marketplace/internal/model"
)

// Repository is the store the service works against. Update methods hand
// the current row to fn and persist whatever fn leaves in it, atomically.
type Repository interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int) (model.User, error)
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	UpdateUser(ctx context.Context, id int, fn func(*model.User)) (model.User, error)
	DeleteUser(ctx context.Context, id int) error

	ListOrders(ctx context.Context) ([]model.Order, error)
	GetOrder(ctx context.Context, id int) (model.Order, error)
	CreateOrder(ctx context.Context, o model.Order) (model.Order, error)
	UpdateOrder(ctx context.Context, id int, fn func(*model.Order)) (model.Order, error)
	DeleteOrder(ctx context.Context, id int) error

	ListOffers(ctx context.Context) ([]model.Offer, error)
	GetOffer(ctx context.Context, id int) (model.Offer, error)
	CreateOffer(ctx context.Context, o model.Offer) (model.Offer, error)
	UpdateOffer(ctx context.Context, id int, fn func(*model.Offer)) (model.Offer, error)
	DeleteOffer(ctx context.Context, id int) error
}

type MarketService struct {
	repo Repository
}

func NewMarketService(repo Repository) *MarketService {
	return &MarketService{repo: repo}
}

func (s *MarketService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *MarketService) GetUser(ctx context.Context, id int) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser inserts a user built from p. The new user has no role.
func (s *MarketService) CreateUser(ctx context.Context, p model.UserPayload) (model.User, error) {
	var u model.User
	p.ApplyTo(&u)
	return s.repo.CreateUser(ctx, u)
}

// UpdateUser replaces every payload field of user id, clearing the ones p
// leaves out. The role is kept.
func (s *MarketService) UpdateUser(ctx context.Context, id int, p model.UserPayload) (model.User, error) {
	return s.repo.UpdateUser(ctx, id, func(u *model.User) { p.ApplyTo(u) })
}

func (s *MarketService) DeleteUser(ctx context.Context, id int) error {
	return s.repo.DeleteUser(ctx, id)
}

func (s *MarketService) ListOrders(ctx context.Context) ([]model.Order, error) {
	return s.repo.ListOrders(ctx)
}

func (s *MarketService) GetOrder(ctx context.Context, id int) (model.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *MarketService) CreateOrder(ctx context.Context, p model.OrderPayload) (model.Order, error) {
	var o model.Order
	p.ApplyTo(&o)
	return s.repo.CreateOrder(ctx, o)
}

func (s *MarketService) UpdateOrder(ctx context.Context, id int, p model.OrderPayload) (model.Order, error) {
	return s.repo.UpdateOrder(ctx, id, func(o *model.Order) { p.ApplyTo(o) })
}

func (s *MarketService) DeleteOrder(ctx context.Context, id int) error {
	return s.repo.DeleteOrder(ctx, id)
}

func (s *MarketService) ListOffers(ctx context.Context) ([]model.Offer, error) {
	return s.repo.ListOffers(ctx)
}

func (s *MarketService) GetOffer(ctx context.Context, id int) (model.Offer, error) {
	return s.repo.GetOffer(ctx, id)
}

func (s *MarketService) CreateOffer(ctx context.Context, p model.OfferPayload) (model.Offer, error) {
	var o model.Offer
	p.ApplyTo(&o)
	return s.repo.CreateOffer(ctx, o)
}

func (s *MarketService) UpdateOffer(ctx context.Context, id int, p model.OfferPayload) (model.Offer, error) {
	return s.repo.UpdateOffer(ctx, id, func(o *model.Offer) { p.ApplyTo(o) })
}

func (s *MarketService) DeleteOffer(ctx context.Context, id int) error {
	return s.repo.DeleteOffer(ctx, id)
}
