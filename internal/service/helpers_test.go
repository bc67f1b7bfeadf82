package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"agriconnect-api/internal/events"
	"agriconnect-api/internal/model"
	"agriconnect-api/internal/repository"
	"agriconnect-api/pkg/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func createUser(t *testing.T, db *gorm.DB, username, location string, farmer, buyer bool) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Location: location,
		IsFarmer: farmer,
		IsBuyer:  buyer,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createProduct(t *testing.T, db *gorm.DB, farmer *model.User, name, qty, price string, available bool) *model.FarmProduct {
	t.Helper()
	p := &model.FarmProduct{
		FarmerID:     farmer.ID,
		Name:         name,
		Quantity:     dec(qty),
		Unit:         "kg",
		PricePerUnit: dec(price),
		Available:    available,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func reloadProduct(t *testing.T, db *gorm.DB, p *model.FarmProduct) *model.FarmProduct {
	t.Helper()
	var fresh model.FarmProduct
	require.NoError(t, db.First(&fresh, "id = ?", p.ID).Error)
	return &fresh
}

func countOrders(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Order{}).Count(&n).Error)
	return n
}

// recordingPublisher collects events published from background goroutines.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	ch     chan events.Event
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{ch: make(chan events.Event, 64)}
}

func (r *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	r.ch <- e
	return nil
}

func (r *recordingPublisher) next(t *testing.T) events.Event {
	t.Helper()
	select {
	case e := <-r.ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
		return events.Event{}
	}
}

func kindOf(t *testing.T, err error) Kind {
	t.Helper()
	var serr *Error
	require.ErrorAs(t, err, &serr)
	return serr.Kind
}
