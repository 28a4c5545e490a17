package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/auth"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/product"
	"github.com/fekuna/orderflow-service/internal/product/dto"
	"github.com/fekuna/orderflow-service/internal/validation"
	"github.com/fekuna/orderflow-service/pkg/logger"
	"github.com/fekuna/orderflow-service/pkg/search"
)

const (
	listCacheTTL = 5 * time.Minute
	productIndex = "products"
)

// ListCache is the subset of cache.RedisClient used for product lists.
type ListCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// Searcher is the subset of search.Client used for product search.
type Searcher interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResponse, error)
	Delete(ctx context.Context, index, id string) error
}

type productUseCase struct {
	repo   product.Repository
	cache  ListCache
	es     Searcher
	logger logger.ZapLogger
}

// NewProductUseCase wires the product use case. cache and es may be nil.
func NewProductUseCase(repo product.Repository, cache ListCache, es Searcher, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	companyID := auth.GetCompanyID(ctx)
	now := time.Now()
	p := &model.Product{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CompanyID:      companyID,
		Name:           input.Name,
		Description:    input.Description,
		Price:          *input.Price,
		SKU:            input.SKU,
		Unit:           input.Unit,
		Category:       input.Category,
		Attributes:     types.JSONText(input.Attributes),
		TrackInventory: *input.TrackInventory,
		StockQuantity:  *input.StockQuantity,
		MinStockLevel:  *input.MinStockLevel,
		IsActive:       *input.IsActive,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidateProductCache(ctx, companyID)
	go uc.syncToElastic(p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, auth.GetCompanyID(ctx), id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("Product")
	}
	return p, nil
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	filters.CompanyID = auth.GetCompanyID(ctx)

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Warn("elasticsearch search failed, falling back to database", zap.Error(err))
	}

	cacheKey := ""
	if uc.cache != nil {
		if key, err := generateCacheKey(filters); err == nil {
			cacheKey = key
			if val, err := uc.cache.Get(ctx, cacheKey); err == nil {
				var hit cachedList
				if err := json.Unmarshal([]byte(val), &hit); err == nil {
					return hit.Products, hit.Count, nil
				}
			}
		}
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(cachedList{Products: products, Count: count}); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, listCacheTTL); err != nil {
				uc.logger.Warn("failed to cache product list", zap.Error(err))
			}
		}
	}
	return products, count, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	filter := []map[string]interface{}{
		{"term": map[string]interface{}{"company_id": f.CompanyID}},
	}
	if f.Category != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"category": f.Category}})
	}
	if f.IsActive != nil {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"is_active": *f.IsActive}})
	}
	if f.TrackInventory != nil {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"track_inventory": *f.TrackInventory}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"query_string": map[string]interface{}{
							"query":  fmt.Sprintf("*%s*", f.SearchQuery),
							"fields": []string{"name^3", "sku", "description", "category"},
						},
					},
				},
				"filter": filter,
			},
		},
		"sort": []map[string]interface{}{{"created_at": "desc"}},
		"from": (f.Page - 1) * f.Limit,
		"size": f.Limit,
	}

	res, err := uc.es.Search(ctx, productIndex, q)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

const productMapping = `{
	"mappings": {
		"properties": {
			"company_id": { "type": "keyword" },
			"name": { "type": "text" },
			"description": { "type": "text" },
			"sku": { "type": "keyword" },
			"category": { "type": "keyword" },
			"price": { "type": "double" },
			"is_active": { "type": "boolean" },
			"track_inventory": { "type": "boolean" },
			"created_at": { "type": "date" }
		}
	}
}`

func (uc *productUseCase) syncToElastic(p *model.Product) {
	if uc.es == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uc.es.CreateIndex(ctx, productIndex, productMapping); err != nil {
		uc.logger.Warn("failed to ensure product index", zap.Error(err))
	}
	if err := uc.es.Index(ctx, productIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%s:%x", filters.CompanyID, md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context, companyID string) {
	if uc.cache == nil {
		return
	}
	pattern := fmt.Sprintf("products:list:%s:*", companyID)
	if err := uc.cache.DeleteByPattern(ctx, pattern); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.String("company_id", companyID), zap.Error(err))
	}
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id string, input *dto.UpdateProductInput) (*model.Product, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	p, err := uc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	input.Apply(p)
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidateProductCache(ctx, p.CompanyID)
	go uc.syncToElastic(p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	companyID := auth.GetCompanyID(ctx)
	deleted, err := uc.repo.Delete(ctx, companyID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("Product")
	}

	uc.invalidateProductCache(ctx, companyID)
	if uc.es != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := uc.es.Delete(ctx, productIndex, id); err != nil {
				uc.logger.Error("failed to delete product from index", zap.String("product_id", id), zap.Error(err))
			}
		}()
	}
	return nil
}
