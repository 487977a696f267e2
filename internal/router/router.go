package router

import (
	"net/http"

	"arenasvc/internal/config"
	"arenasvc/internal/handlers"
	"arenasvc/internal/middleware"
	"arenasvc/internal/services"
	"arenasvc/internal/storage"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(store storage.Store, cfg config.Config, rdb *redis.Client, logger zerolog.Logger) *mux.Router {
	walletService := services.NewWalletService(store, logger)
	userService := services.NewUserService(store, walletService, logger)
	authService := services.NewAuthService(cfg.JWTSecret, logger)
	paymentService := services.NewPaymentService(store, walletService, logger)
	tournamentService := services.NewTournamentService(store, walletService, userService, logger)
	prizeService := services.NewPrizeService(tournamentService, walletService, logger)

	authHandler := handlers.NewAuthHandler(userService, authService, logger)
	walletHandler := handlers.NewWalletHandler(walletService, paymentService, logger)
	requestHandler := handlers.NewRequestHandler(paymentService, logger)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, prizeService, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(10), 20)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api/v1").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")

	me := api.PathPrefix("/users").Subrouter()
	me.Use(middleware.Authentication(authService, logger))
	me.HandleFunc("/me", authHandler.Me).Methods("GET")

	wallet := api.PathPrefix("/wallet").Subrouter()
	wallet.Use(middleware.Authentication(authService, logger))
	wallet.Use(middleware.Idempotency(rdb, logger))
	wallet.HandleFunc("", walletHandler.GetWallet).Methods("GET")
	wallet.HandleFunc("/upi", walletHandler.SetUpiID).Methods("PUT")
	wallet.HandleFunc("/deposits", walletHandler.SubmitDeposit).Methods("POST")
	wallet.HandleFunc("/withdrawals", walletHandler.SubmitWithdrawal).Methods("POST")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Authentication(authService, logger))
	admin.Use(middleware.RequireRole("admin"))
	admin.Use(middleware.Idempotency(rdb, logger))
	admin.HandleFunc("/requests", requestHandler.ListPending).Methods("GET")
	admin.HandleFunc("/deposits/{id}", requestHandler.ResolveDeposit).Methods("PUT")
	admin.HandleFunc("/withdrawals/{id}", requestHandler.ResolveWithdrawal).Methods("PUT")

	// All tournament routes share one subrouter; admin-only and idempotent
	// routes wrap their handlers directly since mux does not fall through
	// between subrouters with the same prefix.
	adminOnly := middleware.RequireRole("admin")
	idempotent := middleware.Idempotency(rdb, logger)

	tournaments := api.PathPrefix("/tournaments").Subrouter()
	tournaments.Use(middleware.Authentication(authService, logger))
	tournaments.HandleFunc("", tournamentHandler.List).Methods("GET")
	tournaments.Handle("", adminOnly(idempotent(http.HandlerFunc(tournamentHandler.Create)))).Methods("POST")
	tournaments.HandleFunc("/{id}", tournamentHandler.Get).Methods("GET")
	tournaments.HandleFunc("/{id}/ranking", tournamentHandler.Ranking).Methods("GET")
	tournaments.Handle("/{id}/enroll", idempotent(http.HandlerFunc(tournamentHandler.Enroll))).Methods("POST")
	tournaments.Handle("/{id}/teams/{teamId}/matchpoints", adminOnly(http.HandlerFunc(tournamentHandler.UpdateMatchpoints))).Methods("PATCH")
	tournaments.Handle("/{id}/prize", adminOnly(idempotent(http.HandlerFunc(tournamentHandler.SendPrize)))).Methods("POST")
	tournaments.Handle("/{id}/room", adminOnly(http.HandlerFunc(tournamentHandler.SetRoom))).Methods("PUT")
	tournaments.Handle("/{id}/status", adminOnly(http.HandlerFunc(tournamentHandler.UpdateStatus))).Methods("PUT")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
