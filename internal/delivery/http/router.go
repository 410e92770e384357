package http

import (
	"net/http"

	"cureconnect/internal/delivery/http/handler"
	"cureconnect/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router         *mux.Router
	authHandler    *handler.AuthHandler
	profileHandler *handler.ProfileHandler
	doctorHandler  *handler.DoctorHandler
	chatHandler    *handler.ChatHandler
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	doctorHandler *handler.DoctorHandler,
	chatHandler *handler.ChatHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		authHandler:    authHandler,
		profileHandler: profileHandler,
		doctorHandler:  doctorHandler,
		chatHandler:    chatHandler,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
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
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/signout", r.authHandler.SignOut).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)
	authProtected.HandleFunc("/account", r.authHandler.DeactivateAccount).Methods(http.MethodDelete)

	// Own profile
	profile := api.PathPrefix("/profile").Subrouter()
	profile.Use(r.authMiddleware.Authenticate)
	profile.HandleFunc("", r.profileHandler.GetProfile).Methods(http.MethodGet)
	profile.HandleFunc("", r.profileHandler.BatchUpdate).Methods(http.MethodPatch)
	profile.HandleFunc("/stream", r.profileHandler.Stream).Methods(http.MethodGet)
	profile.HandleFunc("/completion", r.profileHandler.GetCompletion).Methods(http.MethodGet)
	profile.HandleFunc("/field", r.profileHandler.UpdateField).Methods(http.MethodPatch)
	profile.HandleFunc("/languages", r.profileHandler.UpdateLanguages).Methods(http.MethodPut)
	profile.Handle("/availability/toggle",
		middleware.RequireDoctor(http.HandlerFunc(r.profileHandler.ToggleAvailability))).Methods(http.MethodPost)
	profile.HandleFunc("/picture", r.profileHandler.UpdatePicture).Methods(http.MethodPost)
	profile.HandleFunc("/picture", r.profileHandler.RemovePicture).Methods(http.MethodDelete)

	// Doctor directory
	doctors := api.PathPrefix("/doctors").Subrouter()
	doctors.Use(r.authMiddleware.Authenticate)
	doctors.HandleFunc("", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	doctors.HandleFunc("/specializations", r.doctorHandler.Specializations).Methods(http.MethodGet)
	doctors.HandleFunc("/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)

	// Chat (public)
	api.HandleFunc("/chat", r.chatHandler.Welcome).Methods(http.MethodGet)
	api.HandleFunc("/chat", r.chatHandler.Reply).Methods(http.MethodPost)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
