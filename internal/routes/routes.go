package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sequencer/internal/controllers"
	"sequencer/internal/repositories"
	"sequencer/internal/services"
	"sequencer/pkg/config"
	"sequencer/pkg/filestorage"
	"sequencer/pkg/middleware"
	"sequencer/pkg/service"
)

// InitRouter собирает весь граф зависимостей и вешает маршруты.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository(dbConn, logger)
	departmentRepo := repositories.NewDepartmentRepository(dbConn, logger)
	membershipRepo := repositories.NewMembershipRepository(dbConn, logger)
	documentTypeRepo := repositories.NewDocumentTypeRepository(dbConn)
	sequenceRepo := repositories.NewSequenceRepository(dbConn, logger)
	emissionRepo := repositories.NewEmissionRepository(dbConn, logger)
	emissionFileRepo := repositories.NewEmissionFileRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- Сервисы ---
	authGate := services.NewAuthGateService(membershipRepo, cacheRepo, logger, cfg.MembershipsCacheTTL)
	authService := services.NewAuthService(userRepo, authGate, jwtSvc, logger)
	userService := services.NewUserService(userRepo, membershipRepo, logger)
	departmentService := services.NewDepartmentService(departmentRepo, membershipRepo, authGate, logger)
	membershipService := services.NewMembershipService(membershipRepo, userRepo, authGate, logger)
	documentTypeService := services.NewDocumentTypeService(documentTypeRepo, membershipRepo, logger)
	sequenceService := services.NewSequenceService(sequenceRepo, documentTypeRepo, authGate, logger)
	emissionService := services.NewEmissionService(dbConn, emissionRepo, sequenceRepo, userRepo, authGate, logger)
	listingService := services.NewListingService(emissionRepo, authGate, logger)
	emissionFileService := services.NewEmissionFileService(emissionFileRepo, emissionRepo, sequenceRepo, fileStorage, authGate, logger)
	reportService := services.NewReportService(emissionRepo, departmentRepo, authGate, logger)

	// --- Контроллеры ---
	authController := controllers.NewAuthController(authService, logger)
	userController := controllers.NewUserController(userService, logger)
	departmentController := controllers.NewDepartmentController(departmentService, logger)
	membershipController := controllers.NewMembershipController(membershipService, logger)
	documentTypeController := controllers.NewDocumentTypeController(documentTypeService, logger)
	sequenceController := controllers.NewSequenceController(sequenceService, logger)
	emissionController := controllers.NewEmissionController(emissionService, listingService, logger)
	emissionFileController := controllers.NewEmissionFileController(emissionFileService, logger)
	reportController := controllers.NewReportController(reportService, logger)

	// --- Маршруты ---
	auth := api.Group("/auth")
	auth.POST("/login", authController.Login)
	auth.POST("/refresh", authController.Refresh)
	auth.GET("/me", authController.Profile, authMW.Auth)

	secure := api.Group("", authMW.Auth)

	secure.GET("/users", userController.GetUsers)
	secure.POST("/users", userController.CreateUser)

	secure.GET("/document-types", documentTypeController.GetDocumentTypes)
	secure.POST("/document-types", documentTypeController.CreateDocumentType)

	secure.GET("/departments", departmentController.GetOwnDepartments)
	secure.POST("/departments", departmentController.CreateDepartment)

	secure.GET("/departments/:departmentID/members", membershipController.GetMembers)
	secure.POST("/departments/:departmentID/members", membershipController.AddMember)
	secure.PUT("/departments/:departmentID/members/:userID", membershipController.UpdateMember)
	secure.DELETE("/departments/:departmentID/members/:userID", membershipController.RemoveMember)

	secure.GET("/departments/:departmentID/sequences", sequenceController.GetSequences)
	secure.POST("/departments/:departmentID/sequences", sequenceController.CreateSequence)
	secure.POST("/sequences/:id/toggle-emit", sequenceController.ToggleCanEmit)

	secure.GET("/emissions", emissionController.ListOwn)
	secure.GET("/departments/:departmentID/emissions", emissionController.ListDepartment)
	secure.POST("/departments/:departmentID/emissions", emissionController.Create)
	secure.POST("/departments/:departmentID/emissions/batch", emissionController.CreateBatch)
	secure.PUT("/emissions/:id", emissionController.Edit)
	secure.POST("/emissions/:id/receive", emissionController.Receive)
	secure.POST("/emissions/:id/unreceive", emissionController.Unreceive)

	secure.POST("/emissions/:id/files", emissionFileController.Upload)
	secure.GET("/emissions/:id/files", emissionFileController.GetFiles)
	secure.GET("/files/:id/download", emissionFileController.Download)
	secure.DELETE("/files/:id", emissionFileController.Delete)

	secure.GET("/departments/:departmentID/report", reportController.GetRegister)

	logger.Info("InitRouter: Маршруты успешно созданы")
}
