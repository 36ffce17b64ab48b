package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/corfutbolocanero/roster-service/handlers"
	"github.com/corfutbolocanero/roster-service/middleware"
	"github.com/corfutbolocanero/roster-service/models"
)

// SetupRoutes arma todo el árbol de rutas. Las de administración exigen rol
// admin; el resto de rutas protegidas aceptan admin y entrenador.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	schoolHandler *handlers.SchoolHandler,
	playerHandler *handlers.PlayerHandler,
	importHandler *handlers.ImportHandler,
	certificateHandler *handlers.CertificateHandler,
	lookupHandler *handlers.LookupHandler,
	logoSyncHandler *handlers.LogoSyncHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	adminOnly := middleware.Authorize(models.RoleAdmin)
	anyRole := middleware.Authorize(models.RoleAdmin, models.RoleCoach)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/password-reset/request", authHandler.RequestPasswordReset)
		r.Post("/password-reset", authHandler.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Put("/password", authHandler.UpdatePassword)
		})
	})

	router.Route("/schools", func(r chi.Router) {
		r.Use(authenticate)

		r.Group(func(r chi.Router) {
			r.Use(anyRole)
			r.Get("/", schoolHandler.List)
			r.Get("/{id}", schoolHandler.GetByID)
		})

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", schoolHandler.Create)
			r.Put("/{id}", schoolHandler.Update)
			r.Post("/{id}/logo", schoolHandler.UploadLogo)
			r.Delete("/{id}/logo", schoolHandler.DeleteLogo)
			r.Delete("/{id}", schoolHandler.Delete)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(anyRole)

		r.Get("/", playerHandler.List)
		r.Post("/", playerHandler.Create)
		r.Get("/photo-proxy", playerHandler.PhotoProxy)
		r.Post("/diagnose-url", playerHandler.DiagnoseURL)
		r.Post("/import", importHandler.ImportPlayers)
		r.Get("/{id}", playerHandler.GetByID)
		r.Put("/{id}", playerHandler.Update)
		r.Post("/{id}/files", playerHandler.UploadFiles)
		r.Post("/{id}/deactivate", playerHandler.Deactivate)
		r.Post("/{id}/restore", playerHandler.Restore)
		r.With(adminOnly).Delete("/{id}", playerHandler.DeletePermanently)
	})

	router.Route("/certificates", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(anyRole)

		r.Post("/paz-y-salvo", certificateHandler.PazYSalvo)
		r.Post("/transferencia", certificateHandler.Transferencia)
	})

	router.Route("/lookups", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(anyRole)

		r.Get("/categories", lookupHandler.Categories)
		r.Get("/countries", lookupHandler.Countries)
		r.Get("/countries/{countryID}/departments", lookupHandler.Departments)
		r.Get("/departments/{departmentID}/cities", lookupHandler.Cities)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)

		r.Get("/users", userHandler.List)
		r.Post("/users/admins", userHandler.CreateAdmin)
		r.Post("/users/coaches", userHandler.CreateCoach)
		r.Post("/users/{id}/deactivate", userHandler.Deactivate)
		r.Post("/users/{id}/reactivate", userHandler.Reactivate)
		r.Get("/stats", userHandler.Stats)
		r.Get("/logo-sync/status", logoSyncHandler.Status)
		r.Post("/logo-sync", logoSyncHandler.Sync)
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/ws", webSocketHandler.ServeWs)
	})
}
