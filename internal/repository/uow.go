package repository

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork is the transaction capability handed to services that need
// multi-repository atomicity (sale commit, cancellation, stock entries).
// Do runs fn inside one transaction: fn returning nil commits, any error
// rolls everything back. Repositories expose *Tx method variants that take
// the tx handle fn receives.
//
// Services receive a UnitOfWork explicitly at construction — repositories
// never leak their DB handle and there is no ambient/global provider.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormUnitOfWork struct{ db *gorm.DB }

func NewUnitOfWork(db *gorm.DB) UnitOfWork { return &gormUnitOfWork{db: db} }

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return u.db.WithContext(ctx).Transaction(fn)
}
