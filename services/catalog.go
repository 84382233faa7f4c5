package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	productCachePrefix = "product:detail:"
	productCacheTTL    = 10 * time.Minute
)

// CatalogProduct is the name/price pair snapshotted onto order items at
// checkout time.
type CatalogProduct struct {
	ID    string  `bson:"_id" json:"id"`
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// Catalog resolves a product id to its current name and price. It is only
// consulted at order-creation time; snapshots are never re-derived.
type Catalog interface {
	GetProduct(ctx context.Context, productID string) (*CatalogProduct, error)
}

// MongoCatalog implements Catalog against the products collection, with a
// read-through Redis cache.
type MongoCatalog struct {
	products *mongo.Collection
	cache    *redis.Client
	logger   *zap.Logger
}

// NewMongoCatalog creates a new MongoCatalog. cache may be nil to disable
// caching.
func NewMongoCatalog(db *mongo.Database, cache *redis.Client, logger *zap.Logger) *MongoCatalog {
	return &MongoCatalog{
		products: db.Collection("products"),
		cache:    cache,
		logger:   logger,
	}
}

// GetProduct looks a product up in the cache, falling back to Mongo.
func (c *MongoCatalog) GetProduct(ctx context.Context, productID string) (*CatalogProduct, error) {
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, productCachePrefix+productID).Result(); err == nil {
			var product CatalogProduct
			if err := json.Unmarshal([]byte(cached), &product); err == nil {
				return &product, nil
			}
			c.logger.Warn("Discarding unreadable cached product", zap.String("product_id", productID))
		}
	}

	var product CatalogProduct
	if err := c.products.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		return nil, err
	}

	c.setCacheAsync(productID, &product)
	return &product, nil
}

// setCacheAsync caches a product off the request path.
func (c *MongoCatalog) setCacheAsync(productID string, product *CatalogProduct) {
	if c.cache == nil {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(product)
		if err != nil {
			return
		}
		if err := c.cache.Set(bgCtx, productCachePrefix+productID, data, productCacheTTL).Err(); err != nil {
			c.logger.Warn("Failed to cache product", zap.String("product_id", productID), zap.Error(err))
		}
	}()
}
