package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/config"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/db"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/handlers"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/realtime"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/services/checkout"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/services/upi"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	var (
		st      store.Stores
		backend string
		err     error
	)
	if cfg.DBDSN != "" {
		gdb, err := db.Connect(cfg.DBDSN)
		if err != nil {
			log.Fatal(err)
		}
		if err := gdb.AutoMigrate(&models.User{}, &models.Order{}, &models.Valentine{}); err != nil {
			log.Fatal(err)
		}
		st = store.NewGormStores(gdb)
		backend = "postgres"
	} else {
		st, err = store.NewFileStores(cfg.DataDir)
		if err != nil {
			log.Fatal(err)
		}
		backend = "file"
	}
	log.Printf("[DB] %s storage", backend)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = realtime.NewRedis()
	}
	hub := realtime.NewHub(rdb)
	go hub.Run()

	themes := listThemes(cfg.TemplatesDir)
	log.Printf("[TEMPLATES] %v", themes)

	upiSvc := upi.New(cfg.UPIID, cfg.UPIPayee)
	checkoutSvc := &checkout.Service{
		Orders:      st.Orders,
		Valentines:  st.Valentines,
		UPI:         upiSvc,
		Themes:      themes,
		AutoPublish: !cfg.VerifyPayments,
	}

	orderH := handlers.NewOrderHandler(checkoutSvc, st)
	adminH := handlers.NewAdminHandler(checkoutSvc, st)
	pageH := handlers.NewPageHandler(st.Valentines, cfg.TemplatesDir)
	authH := &handlers.AuthHandler{
		Users:     st.Users,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	googleH := &handlers.GoogleOAuthHandler{
		Users:           st.Users,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Admin-Secret",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	app.Static("/templates", cfg.TemplatesDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "db": backend})
	})

	// auth
	app.Post("/auth/register", authH.Register)
	app.Post("/auth/login", authH.Login)
	app.Post("/auth/logout", authH.Logout)
	app.Get("/auth/me",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
		authH.Me,
	)
	app.Get("/auth/google/start", googleH.GoogleStart)
	app.Get("/auth/google/callback", googleH.GoogleCallback)

	// checkout: guests welcome, a logged-in buyer gets the order linked
	optional := middleware.OptionalJWT(cfg.JWTSecret)
	app.Post("/orders", optional, orderH.CreateOrder)
	app.Post("/orders/:id/attest-payment", optional, orderH.AttestPayment)
	app.Get("/orders/:id/status", orderH.Status)

	// owner-scoped
	me := app.Group("/users/me",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)
	me.Get("/orders", orderH.MyOrders)
	me.Get("/publications", orderH.MyValentines)

	// operator
	admin := app.Group("/admin", middleware.RequireOperator(cfg.AdminSecret))
	admin.Post("/orders/:id/verify", adminH.VerifyPayment)
	admin.Post("/orders/:id/fail", adminH.FailOrder)
	admin.Post("/publish", adminH.DirectPublish)
	admin.Get("/pending-orders", adminH.PendingOrders)

	app.Get("/stats", middleware.RequireOperator(cfg.AdminSecret), adminH.Stats)

	// published pages (/v/ is the legacy share path, kept working)
	app.Get("/p/:id", pageH.Serve)
	app.Get("/v/:id", pageH.Serve)

	// live preview channel
	app.Get("/ws/preview", websocket.New(handlers.PreviewSocket(hub)))

	log.Fatal(app.Listen(":" + cfg.AppPort))
}

// listThemes finds the theme names a buyer may order: one directory per
// template under TemplatesDir.
func listThemes(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("[WARN] cannot read templates dir %s: %v", dir, err)
		return []string{"cosmic", "classic"}
	}
	var themes []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, e.Name(), "index.html")); err == nil {
			themes = append(themes, e.Name())
		}
	}
	if len(themes) == 0 {
		return []string{"cosmic", "classic"}
	}
	return themes
}
