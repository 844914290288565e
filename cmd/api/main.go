package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-itstock/internal/config"
	"go-itstock/internal/handler"
	"go-itstock/internal/middleware"
	"go-itstock/internal/model"
	"go-itstock/internal/report"
	"go-itstock/internal/repository"
	"go-itstock/internal/seed"
	"go-itstock/internal/service"
	"go-itstock/internal/ws"
	"go-itstock/pkg/database"
	"go-itstock/pkg/jwt"
	"go-itstock/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.LoadEnv()

	zlog := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	defer zlog.Sync()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("failed to connect database", zap.Error(err))
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	// 3. Seed default privileges, roles, and admin user
	if err := seed.Defaults(db, cfg.Seed, zlog); err != nil {
		zlog.Warn("failed to seed defaults", zap.Error(err))
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(zlog)
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	withdrawalRepo := repository.NewWithdrawalRepo(db)
	returnRepo := repository.NewReturnRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	signer := jwt.NewSigner(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)
	loc := cfg.Inventory.Location
	pdf := report.NewPDFRenderer(cfg.Server.AppName, cfg.Report.HeaderImage, loc)

	invService := service.NewInventoryService(productRepo, activityRepo, db, wsHub, zlog, cfg.Inventory.UnitTracking)
	withdrawalService := service.NewWithdrawalService(withdrawalRepo, productRepo, activityRepo, db, wsHub, zlog)
	distributionService := service.NewDistributionService(withdrawalRepo, productRepo, returnRepo, activityRepo, db, wsHub, zlog)
	returnService := service.NewReturnService(returnRepo, productRepo, activityRepo, db, wsHub, zlog)
	purchaseService := service.NewPurchaseService(purchaseRepo, activityRepo, db, zlog)
	dashService := service.NewDashboardService(productRepo, withdrawalRepo, activityRepo, cfg.Inventory.LowStockThreshold)
	authService := service.NewAuthService(userRepo, activityRepo, signer, wsHub, zlog)
	userService := service.NewUserService(userRepo, roleRepo, activityRepo)

	invHandler := handler.NewInventoryHandler(invService)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalService, distributionService, pdf)
	returnHandler := handler.NewReturnHandler(returnService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	historyHandler := handler.NewHistoryHandler(withdrawalService, returnService, pdf, loc, cfg.Inventory.PageSize)
	dashHandler := handler.NewDashboardHandler(dashService, loc, cfg.Inventory.PageSize)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.AppName,
		ErrorHandler: errorHandler(zlog),
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	requireAuth := middleware.RequireAuth(authService)
	auth.Post("/logout", requireAuth, authHandler.Logout)
	auth.Post("/change-password", requireAuth, authHandler.ChangePassword)
	auth.Post("/heartbeat", requireAuth, authHandler.Heartbeat)

	protected := api.Group("", requireAuth)
	priv := middleware.RequirePrivilege

	// Dashboard
	protected.Get("/dashboard/stats", priv(model.PrivDashboardView), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/activity", priv(model.PrivActivityView), dashHandler.GetActivity)

	// Products
	protected.Get("/products", priv(model.PrivProductView), invHandler.GetProducts)
	protected.Get("/products/categories", priv(model.PrivProductView), invHandler.GetCategories)
	protected.Get("/products/:id", priv(model.PrivProductView), invHandler.GetProduct)
	protected.Post("/products", priv(model.PrivProductCreate), invHandler.CreateProduct)
	protected.Put("/products/:id", priv(model.PrivProductUpdate), invHandler.UpdateProduct)
	protected.Delete("/products/:id", priv(model.PrivProductDelete), invHandler.DeleteProduct)

	// Withdrawals & distribution
	protected.Post("/withdrawals", priv(model.PrivWithdrawalCreate), withdrawalHandler.CreateWithdrawal)
	protected.Get("/withdrawals/pending", priv(model.PrivWithdrawalView), withdrawalHandler.GetPending)
	protected.Get("/withdrawals/:id", priv(model.PrivWithdrawalView), withdrawalHandler.GetWithdrawal)
	protected.Get("/withdrawals/:id/receipt.pdf", priv(model.PrivWithdrawalView), withdrawalHandler.GetReceipt)
	protected.Delete("/withdrawals/:id", priv(model.PrivWithdrawalDelete), withdrawalHandler.DeleteWithdrawal)
	protected.Post("/withdrawals/:id/distribute", priv(model.PrivDistributionWrite), withdrawalHandler.Distribute)

	// Returns
	protected.Post("/returns", priv(model.PrivReturnCreate), returnHandler.CreateReturn)

	// Purchase requests
	protected.Get("/purchases", priv(model.PrivPurchaseView), purchaseHandler.GetPurchases)
	protected.Post("/purchases", priv(model.PrivPurchaseCreate), purchaseHandler.CreatePurchases)
	protected.Put("/purchases/:id/purchased", priv(model.PrivPurchaseMark), purchaseHandler.MarkPurchased)
	protected.Delete("/purchases/:id", priv(model.PrivPurchaseDelete), purchaseHandler.DeletePurchase)

	// History & reports
	for _, name := range []string{handler.ReportWithdrawals, handler.ReportDistributions, handler.ReportReturns} {
		protected.Get("/history/"+name, priv(model.PrivReportView), historyHandler.History(name))
		protected.Get("/reports/"+name+".pdf", priv(model.PrivReportView), historyHandler.Report(name, "pdf"))
		protected.Get("/reports/"+name+".xlsx", priv(model.PrivReportView), historyHandler.Report(name, "xlsx"))
	}

	// User management
	protected.Get("/users", priv(model.PrivUserView), userHandler.GetAllUsers)
	protected.Get("/users/:id", priv(model.PrivUserView), userHandler.GetUserByID)
	protected.Post("/users", priv(model.PrivUserCreate), userHandler.CreateUser)
	protected.Put("/users/:id", priv(model.PrivUserUpdate), userHandler.UpdateUser)
	protected.Delete("/users/:id", priv(model.PrivUserDelete), userHandler.DeleteUser)

	// Roles & privileges
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			zlog.Panic("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}
	zlog.Info("server exited")
}

// errorHandler answers errors the handlers did not map themselves.
func errorHandler(zlog *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		zlog.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
