package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/google/uuid"

	"github.com/d60-Lab/mini-threads/config"
	"github.com/d60-Lab/mini-threads/internal/model"
	"github.com/d60-Lab/mini-threads/internal/repository"
	"github.com/d60-Lab/mini-threads/internal/service"
	"github.com/d60-Lab/mini-threads/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// feedbench: 构造关注图 + 帖子后压测 feed 读路径（join-on-read）
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	relSvc := service.NewRelationshipService(followRepo, userRepo, nil)
	feedSvc := service.NewFeedService(relSvc, postRepo)

	ctx := context.Background()

	USERS := envInt("USERS", 1000)
	FOLLOWS := envInt("FOLLOWS", 20)   // 每用户关注数
	POSTS := envInt("POSTS", 10)       // 每用户发帖数
	QUERIES := envInt("QUERIES", 5000) // feed 查询次数
	PAGE := envInt("PAGE", 30)

	// seed users
	users := make([]model.User, USERS)
	for i := range users {
		id := uuid.New().String()
		users[i] = model.User{ID: id, Username: "u" + id[:8], Password: "p"}
	}
	batch := 500
	for i := 0; i < USERS; i += batch {
		end := i + batch
		if end > USERS {
			end = USERS
		}
		sub := users[i:end]
		_ = db.Create(&sub).Error
	}

	// seed follow graph
	for i := range users {
		for j := 0; j < FOLLOWS; j++ {
			to := users[rand.Intn(USERS)].ID
			if to == users[i].ID {
				continue
			}
			_ = followRepo.Create(ctx, users[i].ID, to)
		}
	}

	// seed posts
	posts := make([]model.Post, 0, batch)
	for i := range users {
		for j := 0; j < POSTS; j++ {
			posts = append(posts, model.Post{
				ID:       uuid.New().String(),
				AuthorID: users[i].ID,
				Content:  fmt.Sprintf("post %d by %s", j, users[i].Username),
			})
			if len(posts) == batch {
				_ = db.Create(&posts).Error
				posts = posts[:0]
			}
		}
	}
	if len(posts) > 0 {
		_ = db.Create(&posts).Error
	}

	// measure feed latency
	hist := hdrhistogram.New(1, int64(10*time.Second), 3)
	t0 := time.Now()
	for i := 0; i < QUERIES; i++ {
		uid := users[rand.Intn(USERS)].ID
		st := time.Now()
		if _, err := feedSvc.Feed(ctx, uid, PAGE, 0); err != nil {
			panic(err)
		}
		_ = hist.RecordValue(int64(time.Since(st)))
	}
	total := time.Since(t0)

	fmt.Printf("USERS=%d FOLLOWS=%d POSTS=%d QUERIES=%d PAGE=%d\n", USERS, FOLLOWS, POSTS, QUERIES, PAGE)
	fmt.Printf("feed queries total: %v, qps: %.0f\n", total, float64(QUERIES)/total.Seconds())
	fmt.Printf("latency p50=%v p95=%v p99=%v max=%v\n",
		time.Duration(hist.ValueAtQuantile(50)),
		time.Duration(hist.ValueAtQuantile(95)),
		time.Duration(hist.ValueAtQuantile(99)),
		time.Duration(hist.Max()))
}
