package routes

import (
	"mandi/analytics"
	"mandi/auth"
	"mandi/cart"
	"mandi/chat"
	"mandi/chatbot"
	"mandi/middleware"
	"mandi/orders"
	"mandi/products"
	"mandi/ratelim"
	"mandi/rewards"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, api *auth.API, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rl.Limit(api.Login))
	router.POST("/api/auth/logout", rl.Limit(api.Logout))
	router.GET("/api/session", api.GetSession)
	router.POST("/api/session/language", api.ToggleLanguage)
}

func AddProductRoutes(router *httprouter.Router, api *products.API) {
	router.GET("/api/products", api.GetProducts)
	router.GET("/api/pricing/suggest", middleware.Authenticate(api.SuggestPrice))
	router.GET("/api/products/:id", api.GetProduct)
	router.POST("/api/products", middleware.Authenticate(api.CreateProduct))
	router.PUT("/api/products/:id", middleware.Authenticate(api.UpdateProduct))
	router.POST("/api/products/:id/photo", middleware.Authenticate(api.UploadPhoto))
}

func AddCartRoutes(router *httprouter.Router, api *cart.API) {
	router.GET("/api/cart", api.GetCart)
	router.POST("/api/cart", api.AddToCart)
	router.DELETE("/api/cart", api.ClearCart)
	router.DELETE("/api/cart/:productId", api.RemoveFromCart)
	router.POST("/api/cart/checkout", middleware.Authenticate(api.Checkout))
}

func AddOrderRoutes(router *httprouter.Router, api *orders.API) {
	router.GET("/api/orders", middleware.Authenticate(api.GetOrders))
	router.GET("/api/orders/:id", middleware.Authenticate(api.GetOrder))
	router.PUT("/api/orders/:id/status", middleware.Authenticate(api.UpdateStatus))
	router.GET("/api/orders/:id/receipt", middleware.Authenticate(api.Receipt))
}

func AddRewardRoutes(router *httprouter.Router, api *rewards.API) {
	router.GET("/api/rewards", middleware.Authenticate(api.GetRewards))
	router.POST("/api/rewards", middleware.Authenticate(api.GrantReward))
}

func AddAnalyticsRoutes(router *httprouter.Router, svc *analytics.Service) {
	router.GET("/api/analytics/dashboard", middleware.Authenticate(svc.Dashboard))
	router.GET("/api/analytics/activity", middleware.Authenticate(svc.Activity))
}

func AddChatbotRoutes(router *httprouter.Router, svc *chatbot.Service, rl *ratelim.RateLimiter) {
	router.POST("/api/chatbot", rl.Limit(svc.Handle))
}

func AddChatRoutes(router *httprouter.Router, api *chat.API, hub *chat.Hub) {
	router.GET("/api/chat/messages", api.GetMessages)
	router.POST("/api/chat/messages", api.SendMessage)
	router.DELETE("/api/chat/messages", api.ResetSession)
	router.POST("/api/chat/voice", api.ToggleVoice)
	router.POST("/api/chat/voice/text", api.TakeVoiceInput)
	router.GET("/ws/chat", api.WebSocketHandler(hub))
}
