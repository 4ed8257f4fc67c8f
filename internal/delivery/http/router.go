package http

import (
	"net/http"

	"personal-health-record/internal/delivery/http/handler"
	"personal-health-record/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router           *mux.Router
	authHandler      *handler.AuthHandler
	profileHandler   *handler.ProfileHandler
	vitalHandler     *handler.VitalHandler
	documentHandler  *handler.DocumentHandler
	dashboardHandler *handler.DashboardHandler
	activityHandler  *handler.ActivityHandler
	authMiddleware   *middleware.AuthMiddleware
	corsMiddleware   *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	vitalHandler *handler.VitalHandler,
	documentHandler *handler.DocumentHandler,
	dashboardHandler *handler.DashboardHandler,
	activityHandler *handler.ActivityHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:           mux.NewRouter(),
		authHandler:      authHandler,
		profileHandler:   profileHandler,
		vitalHandler:     vitalHandler,
		documentHandler:  documentHandler,
		dashboardHandler: dashboardHandler,
		activityHandler:  activityHandler,
		authMiddleware:   authMiddleware,
		corsMiddleware:   corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", r.authHandler.SignUp).Methods(http.MethodPost)
	auth.HandleFunc("/signin", r.authHandler.SignIn).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", r.authHandler.RefreshToken).Methods(http.MethodPost)
	auth.HandleFunc("/session", r.authHandler.Session).Methods(http.MethodGet)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/signout", r.authHandler.SignOut).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Record routes, scoped to the signed in user
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/profile", r.profileHandler.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/profile", r.profileHandler.SaveProfile).Methods(http.MethodPut)

	protected.HandleFunc("/vitals", r.vitalHandler.ListVitals).Methods(http.MethodGet)
	protected.HandleFunc("/vitals", r.vitalHandler.RecordVital).Methods(http.MethodPost)

	protected.HandleFunc("/documents", r.documentHandler.ListDocuments).Methods(http.MethodGet)
	protected.HandleFunc("/documents", r.documentHandler.UploadDocument).Methods(http.MethodPost)
	protected.HandleFunc("/documents/categories", r.documentHandler.Categories).Methods(http.MethodGet)
	protected.HandleFunc("/documents/{id}", r.documentHandler.DeleteDocument).Methods(http.MethodDelete)
	protected.HandleFunc("/documents/{id}/download", r.documentHandler.DownloadDocument).Methods(http.MethodGet)
	protected.HandleFunc("/documents/{id}/url", r.documentHandler.SignedURL).Methods(http.MethodGet)

	protected.HandleFunc("/dashboard", r.dashboardHandler.GetDashboard).Methods(http.MethodGet)
	protected.HandleFunc("/activity", r.activityHandler.ListActivity).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
