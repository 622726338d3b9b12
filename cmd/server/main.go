package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/tsering10/OP-Final-Project/internal/config"
	"github.com/tsering10/OP-Final-Project/internal/database"
	"github.com/tsering10/OP-Final-Project/internal/handler"
	"github.com/tsering10/OP-Final-Project/internal/mailer"
	appmw "github.com/tsering10/OP-Final-Project/internal/middleware"
	"github.com/tsering10/OP-Final-Project/internal/queue"
	"github.com/tsering10/OP-Final-Project/internal/repository"
	"github.com/tsering10/OP-Final-Project/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the rate limiter and the browse cache.  A nil client
	// simply turns both middlewares into pass-throughs.
	rdb := config.NewRedisClient()
	rateLimit := appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	browseCache := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)

	mail := mailer.New(cfg)

	// The booking consumer reads confirmation events off RabbitMQ and
	// sends the e-mails; it reconnects on its own and never blocks the
	// HTTP server.
	go func() {
		if err := queue.StartBookingConsumer(mail); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	chefs := repository.NewChefRepo(db)
	categories := repository.NewCategoryRepo(db)
	recipes := repository.NewRecipeRepo(db)
	workshops := repository.NewWorkshopRepo(db)
	regs := repository.NewRegistrationRepo(db)

	e := echo.New()

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, chefs, tokens, mail), cfg.JWTSecret, rateLimit)
	router.RegisterPublic(e, handler.NewPublicHandler(recipes, workshops, regs), browseCache)
	router.RegisterChef(e, handler.NewChefHandler(cfg, users, chefs, categories, recipes, workshops, regs), cfg.JWTSecret)
	router.RegisterCustomer(e, handler.NewCustomerHandler(users, workshops, regs), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
