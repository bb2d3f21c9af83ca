package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/config"
	mongodoc "github.com/sngm3741/cafe-finder/api/internal/infrastructure/mongo"
)

type seedOptions struct {
	envFile         string
	cafeCount       int
	reviewsPerCafe  int
	approvedPercent int
	dropCollections bool
	randomSeed      int64
	workers         int
}

func main() {
	opts := parseFlags()

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := cfg.Logger
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.MongoDatabase)
	collections := mongodoc.Collections{
		Cafes:               cfg.CafeCollection,
		Reviews:             cfg.ReviewCollection,
		Votes:               cfg.VoteCollection,
		Claims:              cfg.ClaimCollection,
		Busy:                cfg.BusyCollection,
		FailedNotifications: cfg.FailedNotificationCollection,
	}

	if opts.dropCollections {
		dropCollections(ctx, logger, db, collections)
	}
	if err := mongodoc.EnsureIndexes(ctx, db, collections); err != nil {
		logger.Fatal("ensure indexes failed", zap.Error(err))
	}

	cafes := mongodoc.NewCafeRepository(db, collections.Cafes)
	reviews := mongodoc.NewReviewRepository(db, collections.Reviews)
	ratings := application.NewRatingRecalculator(reviews, cafes, nil, nil, logger)
	s := seeder{
		rng:       rand.New(rand.NewSource(opts.randomSeed)),
		directory: application.NewDirectoryService(cafes, nil, logger),
		reviews:   application.NewReviewService(reviews, nil, cafes, ratings, nil, nil, logger),
		busy:      application.NewBusyService(mongodoc.NewBusyRepository(db, collections.Busy), cafes),
	}

	summary, err := s.run(ctx, opts)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed complete",
		zap.Int("cafes", summary.cafes),
		zap.Int("reviews", summary.reviews),
		zap.Int("approved", summary.approved),
		zap.Int("busyReports", summary.busyReports),
		zap.String("database", cfg.MongoDatabase),
		zap.Int64("seed", opts.randomSeed),
	)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before the environment")
	flag.IntVar(&opts.cafeCount, "cafes", 24, "number of cafes to create")
	flag.IntVar(&opts.reviewsPerCafe, "reviews", 6, "maximum reviews per cafe")
	flag.IntVar(&opts.approvedPercent, "approved", 80, "share of reviews approved, in percent")
	flag.BoolVar(&opts.dropCollections, "drop", true, "drop existing collections first")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "random seed, for reproducible data")
	flag.IntVar(&opts.workers, "workers", 4, "cafes seeded concurrently")
	flag.Parse()

	if opts.cafeCount <= 0 {
		log.Fatal("cafes must be at least 1")
	}
	if opts.reviewsPerCafe < 0 {
		opts.reviewsPerCafe = 0
	}
	if opts.approvedPercent < 0 || opts.approvedPercent > 100 {
		log.Fatal("approved must be between 0 and 100")
	}
	if opts.workers < 1 {
		opts.workers = 1
	}
	return opts
}

func dropCollections(ctx context.Context, logger *zap.Logger, db *mongo.Database, c mongodoc.Collections) {
	for _, name := range []string{c.Cafes, c.Reviews, c.Votes, c.Claims, c.Busy, c.FailedNotifications} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			logger.Warn("drop collection failed", zap.String("collection", name), zap.Error(err))
		}
	}
}

type seedSummary struct {
	cafes       int
	reviews     int
	approved    int
	busyReports int
}

func (s seedSummary) add(other seedSummary) seedSummary {
	return seedSummary{
		cafes:       s.cafes + other.cafes,
		reviews:     s.reviews + other.reviews,
		approved:    s.approved + other.approved,
		busyReports: s.busyReports + other.busyReports,
	}
}
