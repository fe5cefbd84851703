package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/foodshare/api/handler"
	"github.com/fastygo/foodshare/internal/middleware"
	"github.com/fastygo/foodshare/internal/stubapi"
	"github.com/fastygo/foodshare/pkg/httpcontext"
)

type Handlers struct {
	Auth        *apiHandler.AuthHandler
	Profile     *apiHandler.ProfileHandler
	Food        *apiHandler.FoodHandler
	Request     *apiHandler.RequestHandler
	Transaction *apiHandler.TransactionHandler
	Health      *apiHandler.HealthHandler
}

// NewHandlers builds every handler over one store.
func NewHandlers(store *stubapi.Store, adapter *httpcontext.Adapter, logger *zap.Logger) Handlers {
	return Handlers{
		Auth:        apiHandler.NewAuthHandler(store, adapter, logger),
		Profile:     apiHandler.NewProfileHandler(store, adapter, logger),
		Food:        apiHandler.NewFoodHandler(store, adapter, logger),
		Request:     apiHandler.NewRequestHandler(store, adapter, logger),
		Transaction: apiHandler.NewTransactionHandler(store, adapter, logger),
		Health:      apiHandler.NewHealthHandler(store, adapter, logger),
	}
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.POST("/register", handlers.Auth.Register)
	r.POST("/login", handlers.Auth.Login)

	r.GET("/profile/{userId}", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/profile/{userId}", authMiddleware(handlers.Profile.UpdateProfile))

	r.POST("/food/add", authMiddleware(handlers.Food.Add))
	r.GET("/food/my/{donorId}", authMiddleware(handlers.Food.Mine))
	r.PUT("/food/update/{foodId}", authMiddleware(handlers.Food.Update))
	r.DELETE("/food/delete/{foodId}", authMiddleware(handlers.Food.Delete))
	r.GET("/food/requests/nearby", authMiddleware(handlers.Food.Nearby))
	r.POST("/food/match/{foodId}/{requestId}", authMiddleware(handlers.Food.Match))
	r.GET("/food/transactions/donor/{donorId}", authMiddleware(handlers.Food.DonorTransactions))

	r.POST("/requests/add_request", authMiddleware(handlers.Request.Add))
	r.GET("/requests/all", authMiddleware(handlers.Request.All))
	r.PUT("/requests/update/{requestId}", authMiddleware(handlers.Request.Update))
	r.DELETE("/requests/cancel/{requestId}", authMiddleware(handlers.Request.Cancel))
	r.POST("/requests/accept/{foodId}", authMiddleware(handlers.Request.Accept))

	r.POST("/transactions/create", authMiddleware(handlers.Transaction.Create))
	r.GET("/transactions/all", authMiddleware(handlers.Transaction.All))
	r.GET("/transactions/user/{userId}", authMiddleware(handlers.Transaction.ForUser))
	r.PUT("/transactions/update/{txnId}", authMiddleware(handlers.Transaction.UpdateStatus))

	return r
}

// NewStub wires the complete stub backend around store.
func NewStub(store *stubapi.Store, adapter *httpcontext.Adapter, logger *zap.Logger) fasthttp.RequestHandler {
	r := New(NewHandlers(store, adapter, logger), middleware.RequireUser(store.UserExists, logger))
	return r.Handler
}
