package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mandi/analytics"
	"mandi/auth"
	"mandi/cart"
	"mandi/chat"
	"mandi/chatbot"
	"mandi/kv"
	"mandi/models"
	"mandi/mq"
	"mandi/orders"
	"mandi/products"
	"mandi/ratelim"
	"mandi/rdx"
	"mandi/rewards"
	"mandi/routes"
	"mandi/seed"
	"mandi/store"
	"mandi/utils"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	// session persistence: Redis when configured, in-memory otherwise
	var kvs kv.Store
	if rdx.Init() {
		log.Println("Redis connected; session slices persist across restarts")
		kvs = kv.NewRedisStore(rdx.Conn)
	} else {
		log.Println("Redis not configured; session slices held in memory")
		kvs = kv.NewMemoryStore()
	}

	st := store.New(seed.Default(), kvs)
	events := mq.NewEmitter(rdx.Conn)
	rateLimiter := ratelim.NewRateLimiter()

	chatProxy := chatbot.NewService(context.Background())

	hub := chat.NewHub()
	go hub.Run()

	chatAPI := &chat.API{
		Manager: chat.NewManager(chatProxy.Reply, hub, chat.NoSpeech{}),
		Language: func(r *http.Request) models.Language {
			return st.Language(r.Context(), utils.GetSessionID(r))
		},
	}

	router := httprouter.New()
	router.GET("/health", Index)
	router.ServeFiles("/static/*filepath", http.Dir("./static"))

	routes.AddAuthRoutes(router, &auth.API{Store: st}, rateLimiter)
	routes.AddProductRoutes(router, &products.API{Store: st, Events: events})
	routes.AddCartRoutes(router, &cart.API{Store: st, Events: events})
	routes.AddOrderRoutes(router, &orders.API{Store: st})
	routes.AddRewardRoutes(router, &rewards.API{Store: st, Events: events})
	routes.AddAnalyticsRoutes(router, analytics.NewService(st, events))
	routes.AddChatbotRoutes(router, chatProxy, rateLimiter)
	routes.AddChatRoutes(router, chatAPI, hub)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Session-Id"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("Shutting down chat hub...")
		hub.Stop()
	})

	go func() {
		log.Printf("Digital Mandi listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly")
}
