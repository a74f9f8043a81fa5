package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/rl1809/order-desk/internal/adapter/storage"
	"github.com/rl1809/order-desk/internal/core/domain"
	"github.com/rl1809/order-desk/internal/core/service"
)

const articleID = "SKU-STRESS"

func main() {
	redisAddr := pflag.String("redis", "", "mirror stock to this Redis address and check it too")
	initialStock := pflag.Int("stock", 20, "units in store before the run")
	totalRequests := pflag.Int("requests", 50, "concurrent single-unit orders")
	pflag.Parse()

	logger, _ := zap.NewDevelopment(zap.IncreaseLevel(zap.WarnLevel))
	defer logger.Sync()
	ctx := context.Background()

	article, err := domain.NewArticle(articleID, "Stress article", 100, domain.StandardVAT)
	if err != nil {
		logger.Fatal("failed to create article", zap.Error(err))
	}
	inventory := domain.NewInventory()
	if _, err := inventory.Add(article, *initialStock); err != nil {
		logger.Fatal("failed to stock article", zap.Error(err))
	}
	customer := domain.NewCustomer("Stress", "Test")
	customer.SetID(1)

	articles := storage.NewArticleRepository()
	articles.Save(article)
	customers := storage.NewCustomerRepository()
	customers.Save(customer)

	// Initialize Redis
	var opts []service.Option
	var rdb *redis.Client
	namespace := "stress-" + uuid.NewString() + ":"
	if *redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: *redisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		opts = append(opts, service.WithStockCache(storage.NewRedisAdapter(rdb, storage.WithNamespace(namespace))))
	}

	orderService, err := service.NewOrderService(inventory, service.Repositories{
		Accepted:  storage.NewOrderRepository(),
		Articles:  articles,
		Customers: customers,
	}, *totalRequests, logger, opts...)
	if err != nil {
		logger.Fatal("failed to create order service", zap.Error(err))
	}
	defer orderService.Close()

	if err := orderService.SyncStock(ctx); err != nil {
		logger.Fatal("failed to sync stock", zap.Error(err))
	}

	// Drain the export queue in background
	go func() {
		for range orderService.ExportQueue() {
		}
	}()

	// Counters
	var successCount atomic.Int32
	var failCount atomic.Int32

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			order, err := orderService.BuildOrder(fmt.Sprintf("stress-%d", n), 1,
				[]service.OrderLine{{ArticleID: articleID, Units: 1}})
			if err == nil {
				_, err = orderService.Place(ctx, order)
			}
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := int(successCount.Load())
	fail := int(failCount.Load())
	wantSuccess := min(*initialStock, *totalRequests)

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", *initialStock)
	fmt.Printf("Total Requests:   %d\n", *totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	failed := false
	if success == wantSuccess && fail == *totalRequests-wantSuccess {
		fmt.Printf("PASS: exactly %d orders succeeded, %d failed\n", success, fail)
	} else {
		fmt.Printf("FAIL: expected %d success/%d fail, got %d/%d\n",
			wantSuccess, *totalRequests-wantSuccess, success, fail)
		failed = true
	}

	item, _ := inventory.Lookup(articleID)
	wantStock := *initialStock - wantSuccess
	fmt.Printf("Final Stock:      %d\n", item.UnitsInStore())
	if item.UnitsInStore() != wantStock {
		fmt.Printf("FAIL: expected stock %d, got %d\n", wantStock, item.UnitsInStore())
		failed = true
	}

	// Verify final stock in Redis
	if rdb != nil {
		mirrored, _, err := storage.NewRedisAdapter(rdb, storage.WithNamespace(namespace)).Stock(ctx, articleID)
		if err != nil {
			logger.Fatal("failed to read mirrored stock", zap.Error(err))
		}
		fmt.Printf("Final Redis Stock: %d\n", mirrored)
		if mirrored != wantStock {
			fmt.Printf("FAIL: expected mirrored stock %d, got %d\n", wantStock, mirrored)
			failed = true
		}
		rdb.Del(ctx, namespace+"stock:"+articleID)
	}

	if failed {
		os.Exit(1)
	}
}
