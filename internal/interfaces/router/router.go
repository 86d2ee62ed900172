package router

import (
	"net/http"

	enqsvc "pcns-backend/internal/application/enquiries"
	healthsvc "pcns-backend/internal/application/health"
	notesvc "pcns-backend/internal/application/notes"
	permitsvc "pcns-backend/internal/application/permits"
	projsvc "pcns-backend/internal/application/projects"
	"pcns-backend/internal/config"
	"pcns-backend/internal/dataaccess"
	"pcns-backend/internal/infrastructure/database"
	enqhandler "pcns-backend/internal/interfaces/handlers/enquiries"
	healthhandler "pcns-backend/internal/interfaces/handlers/health"
	notehandler "pcns-backend/internal/interfaces/handlers/notes"
	permithandler "pcns-backend/internal/interfaces/handlers/permits"
	projhandler "pcns-backend/internal/interfaces/handlers/projects"
	"pcns-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the connections the app is built on. DB and Data are required together;
// Rdb is optional and only feeds the health counters.
type Deps struct {
	DB   *gorm.DB
	Data dataaccess.Session
	Rdb  *redis.Client
}

// CreateApp builds the Fiber app with global middleware and every route.
func CreateApp(cfg *config.Config, deps Deps) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler(deps.Rdb),
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix:  cfg.FrontendURLEndsWith,
		DevPassword:    cfg.DevPassword,
		AllowLocalhost: !cfg.IsProduction(),
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.HealthMarker(deps.Rdb))
	app.Use(middleware.RouteLogger())

	hs := &healthsvc.Service{Rdb: deps.Rdb, Data: deps.Data}
	if deps.DB != nil {
		hs.DB = database.Pinger{DB: deps.DB}
	}
	hh := &healthhandler.Handlers{Service: hs, HealthAdminKey: cfg.HealthAdminKey}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	if deps.Data == nil {
		return app, nil
	}

	api := app.Group("/api/v1")

	eh := &enqhandler.Handlers{Service: &enqsvc.Service{Data: deps.Data}}
	eh.Register(api.Group("/enquiry"))

	for prefix, variant := range map[string]dataaccess.Entity{
		"/housing/project":         dataaccess.HousingProject,
		"/electrification/project": dataaccess.ElectrificationProject,
	} {
		ps, err := projsvc.NewService(deps.Data, variant)
		if err != nil {
			return nil, err
		}
		(&projhandler.Handlers{Service: ps}).Register(api.Group(prefix))
	}

	nh := &notehandler.Handlers{Service: &notesvc.Service{Data: deps.Data}}
	nh.Register(api.Group("/note"))

	ph := &permithandler.Handlers{Service: &permitsvc.Service{Data: deps.Data}}
	ph.Register(api.Group("/permit"))

	return app, nil
}

// Handler adapts the app to net/http for serverless hosts.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
