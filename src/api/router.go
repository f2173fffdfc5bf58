package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"centimo-server/src/config"
	"centimo-server/src/handlers"
	"centimo-server/src/middleware"
	"centimo-server/src/tink"
)

func NewRouter(pool *pgxpool.Pool, tinkClient *tink.Client, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.DemoModeMiddleware(cfg.IsDemo))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(pool))
		r.Post("/register", handlers.Register(pool))
		r.Post("/bank/webhook", handlers.BankWebhook(tinkClient, cfg, pool))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware).Group(func(r chi.Router) {
			// User
			r.Get("/user/{user_id}", handlers.GetUser(pool))
			r.Put("/user", handlers.UpdateUser(pool))
			r.Post("/user/change-password", handlers.ChangePassword(pool))
			r.Delete("/user", handlers.DeleteUser(pool))
			r.Get("/settings", handlers.GetUserSettings(pool))
			r.Put("/settings", handlers.UpdateUserSettings(pool))

			// Bank
			r.Get("/bank/providers", handlers.ListBankProviders(tinkClient, cfg, pool))
			r.Post("/bank/connect", handlers.ConnectBank(tinkClient, cfg, pool))
			r.Post("/bank/exchange", handlers.ExchangeBankCode(tinkClient, cfg, pool))
			r.Post("/bank/callback", handlers.HandleBankCallback(tinkClient, cfg, pool))
			r.Post("/bank/sync", handlers.SyncBank(tinkClient, cfg, pool))
			r.Post("/bank/import", handlers.ImportBankTransactions(pool))
			r.Get("/bank/accounts", handlers.GetBankAccounts(pool))
			r.Get("/bank/transactions", handlers.GetStagedBankTransactions(pool))
			r.Get("/bank/connections", handlers.GetBankConnections(pool))
			r.Delete("/bank/connections/{requisition_id}", handlers.DisconnectBank(tinkClient, cfg, pool))

			// Ledger
			r.Post("/ledger", handlers.CreateLedgerEntry(pool))
			r.Get("/ledger", handlers.GetAllLedgerEntries(pool))
			r.Get("/ledger/{year}/{month_id}", handlers.GetLedgerEntriesForMonth(pool))
			r.Put("/ledger/{month_id}/{entry_id}", handlers.UpdateLedgerEntry(pool))
			r.Delete("/ledger/{month_id}/{entry_id}", handlers.DeleteLedgerEntry(pool))

			// Categories
			r.Post("/categories", handlers.CreateCategory(pool))
			r.Get("/categories", handlers.GetAllCategories(pool))
			r.Put("/categories/{category_id}", handlers.UpdateCategory(pool))
			r.Delete("/categories/{category_id}", handlers.DeactivateCategory(pool))

			// Category rules
			r.Post("/category-rules", handlers.CreateCategoryRule(pool))
			r.Post("/category-rules/apply", handlers.ApplyCategoryRules(pool))
			r.Get("/category-rules", handlers.GetAllCategoryRules(pool))
			r.Put("/category-rules/{rule_id}", handlers.UpdateCategoryRule(pool))
			r.Delete("/category-rules/{rule_id}", handlers.DeleteCategoryRule(pool))

			// Budget
			r.Post("/budgets", handlers.UpsertBudgetLine(pool))
			r.Get("/budgets", handlers.GetAllBudgetLines(pool))
			r.Get("/budgets/{year}/{month_id}", handlers.GetBudgetLinesForMonth(pool))
			r.Delete("/budgets/{budget_line_id}", handlers.DeleteBudgetLine(pool))

			// Debt
			r.Post("/debts", handlers.UpsertDebtSnapshot(pool))
			r.Get("/debts", handlers.GetAllDebtSnapshots(pool))
			r.Get("/debts/{year}/{month_id}", handlers.GetDebtSnapshotsForMonth(pool))
			r.Delete("/debts/{snapshot_id}", handlers.DeleteDebtSnapshot(pool))

			// Payment methods
			r.Post("/payment-methods", handlers.CreatePaymentMethod(pool))
			r.Get("/payment-methods", handlers.GetAllPaymentMethods(pool))
			r.Put("/payment-methods/{method_id}", handlers.UpdatePaymentMethod(pool))
			r.Delete("/payment-methods/{method_id}", handlers.DeletePaymentMethod(pool))

			// Finance
			r.Get("/finance/health-metrics", handlers.GetFinancialHealth(pool))
			r.Get("/finance/debt-analysis", handlers.GetDebtAnalysis(pool))
		})

		// Super Admin Routes
		r.With(middleware.JWTAuthMiddleware, middleware.SuperAdminMiddleware).Group(func(r chi.Router) {
			r.Get("/admin/users", handlers.ListUsers(pool))
			r.Post("/admin/user/lock/{user_id}", handlers.LockUser(pool))
			r.Post("/admin/user/unlock/{user_id}", handlers.UnlockUser(pool))
			r.Post("/admin/cache/clear/{cache_name}", handlers.ClearCache(pool))
		})
	})

	return r
}
