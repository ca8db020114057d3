package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pennywise-server/src/handlers"
	"pennywise-server/src/middleware"
)

func NewRouter(pool *pgxpool.Pool, isDemo bool) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.DemoModeMiddleware(isDemo))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(pool))
		r.Post("/register", handlers.Register(pool))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware).Group(func(r chi.Router) {
			// Statement import pipeline
			r.Post("/import/parse", handlers.ParseStatement(pool))
			r.Post("/import/match", handlers.MatchCandidates(pool))
			r.Post("/import/duplicates", handlers.CheckDuplicates(pool))
			r.Post("/import/commit", handlers.CommitImport(pool))

			// Categories and keyword rules
			r.Post("/categories", handlers.CreateCategory(pool))
			r.Get("/categories", handlers.GetAllCategories(pool))
			r.Put("/categories/{category_id}", handlers.UpdateCategory(pool))
			r.Delete("/categories/{category_id}", handlers.DeleteCategory(pool))
			r.Post("/categories/{category_id}/keywords", handlers.CreateCategoryKeyword(pool))
			r.Get("/categories/{category_id}/keywords", handlers.GetKeywordsForCategory(pool))
			r.Delete("/keywords/{keyword_id}", handlers.DeleteCategoryKeyword(pool))

			// Learned merchant patterns
			r.Get("/merchant-patterns", handlers.GetAllMerchantPatterns(pool))
			r.Delete("/merchant-patterns/{pattern_id}", handlers.DeleteMerchantPattern(pool))

			// Transactions
			r.Get("/transactions", handlers.GetTransactions(pool))
			r.Post("/transactions", handlers.CreateTransaction(pool))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(pool))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(pool))

			// Budgets
			r.Post("/budgets", handlers.CreateBudget(pool))
			r.Get("/budgets", handlers.GetAllBudgets(pool))
			r.Get("/budgets/{budget_id}", handlers.GetBudgetByID(pool))
			r.Put("/budgets/{budget_id}", handlers.UpdateBudget(pool))
			r.Delete("/budgets/{budget_id}", handlers.DeleteBudget(pool))
		})
	})

	return r
}
