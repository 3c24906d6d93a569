package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"canteen-ordering/internal/domain"
	"canteen-ordering/internal/kvstore"
	"go.uber.org/zap"
)

// SchemaVersion tags the stored layout of carts and discount contexts.
const SchemaVersion = 1

type cartRecord struct {
	SchemaVersion int               `json:"schemaVersion"`
	Lines         []domain.CartLine `json:"lines"`
}

type discountRecord struct {
	SchemaVersion int `json:"schemaVersion"`
	domain.DiscountContext
}

type kvRepo struct {
	store  kvstore.Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewKV stores carts in store, refreshing ttl on every write.
func NewKV(store kvstore.Store, ttl time.Duration, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = kvstore.DefaultTTL
	}
	return &kvRepo{store: store, ttl: ttl, logger: logger}
}

func (r *kvRepo) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	c := domain.Cart{SessionID: sessionID}
	raw, err := r.store.Get(ctx, fmt.Sprintf(kvstore.KeyCart, sessionID))
	if errors.Is(err, domain.ErrNotFound) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	var rec cartRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return c, fmt.Errorf("decode cart %s: %w", sessionID, err)
	}
	if rec.SchemaVersion != SchemaVersion {
		return c, fmt.Errorf("cart %s: unsupported schema version %d", sessionID, rec.SchemaVersion)
	}
	c.Lines = rec.Lines
	return c, nil
}

func (r *kvRepo) Save(ctx context.Context, c domain.Cart) error {
	key := fmt.Sprintf(kvstore.KeyCart, c.SessionID)
	if len(c.Lines) == 0 {
		return r.store.Delete(ctx, key)
	}
	raw, err := json.Marshal(cartRecord{SchemaVersion: SchemaVersion, Lines: c.Lines})
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, key, raw, r.ttl); err != nil {
		r.logger.Error("cart repo: save", zap.String("session_id", c.SessionID), zap.Error(err))
		return err
	}
	return nil
}

func (r *kvRepo) GetDiscount(ctx context.Context, sessionID string) (domain.DiscountContext, error) {
	raw, err := r.store.Get(ctx, fmt.Sprintf(kvstore.KeyDiscount, sessionID))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DiscountContext{}, nil
	}
	if err != nil {
		return domain.DiscountContext{}, err
	}
	var rec discountRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.DiscountContext{}, fmt.Errorf("decode discount %s: %w", sessionID, err)
	}
	if rec.SchemaVersion != SchemaVersion {
		return domain.DiscountContext{}, fmt.Errorf("discount %s: unsupported schema version %d", sessionID, rec.SchemaVersion)
	}
	return rec.DiscountContext, nil
}

func (r *kvRepo) SaveDiscount(ctx context.Context, sessionID string, dc domain.DiscountContext) error {
	key := fmt.Sprintf(kvstore.KeyDiscount, sessionID)
	if dc == (domain.DiscountContext{}) {
		return r.store.Delete(ctx, key)
	}
	raw, err := json.Marshal(discountRecord{SchemaVersion: SchemaVersion, DiscountContext: dc})
	if err != nil {
		return err
	}
	return r.store.Put(ctx, key, raw, r.ttl)
}

func (r *kvRepo) Clear(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx,
		fmt.Sprintf(kvstore.KeyCart, sessionID),
		fmt.Sprintf(kvstore.KeyDiscount, sessionID),
	)
}
