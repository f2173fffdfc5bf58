package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"centimo-server/src/categorizer"
	"centimo-server/src/config"
	"centimo-server/src/db"
	sql "centimo-server/src/db/sql"
	"centimo-server/src/importer"
	"centimo-server/src/models"
	"centimo-server/src/tink"
	"centimo-server/src/util"
)

// errTransactionsUnavailable marks a sync that connected accounts but could
// not list transactions yet; the code-exchange path treats it as partial
// success.
var errTransactionsUnavailable = errors.New("transactions unavailable")

func ListBankProviders(client *tink.Client, cfg config.Config, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		settings, err := sql.GetUserSettings(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get settings for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		cacheKey := "bank_providers_" + settings.Market
		if cached, found := db.Cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}

		token, err := tink.NewTokenManager(sql.NewStore(pool)).GetValidAccessToken(r.Context(), client)
		if err != nil {
			log.Printf("ERROR: Failed to get provider access token: %v", err)
			http.Error(w, "failed to reach bank provider", http.StatusBadGateway)
			return
		}

		providers, err := client.WithAccessToken(token).ListProviders(r.Context(), settings.Market, "TRANSACTIONS")
		if err != nil {
			log.Printf("ERROR: Failed to list providers for market %s: %v", settings.Market, err)
			http.Error(w, "failed to list providers", http.StatusBadGateway)
			return
		}

		db.SetBankCache(cacheKey, providers)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(providers)
	}
}

// ConnectBank builds the Tink Link URL the front end redirects the user to.
// Creates the provider-side user on first use.
func ConnectBank(client *tink.Client, cfg config.Config, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		username, _ := r.Context().Value("username").(string)

		token, err := tink.NewTokenManager(sql.NewStore(pool)).GetValidAccessToken(r.Context(), client)
		if err != nil {
			log.Printf("ERROR: Failed to get provider access token for user %d: %v", userID, err)
			http.Error(w, "failed to reach bank provider", http.StatusBadGateway)
			return
		}
		ac := client.WithAccessToken(token)

		settings, err := sql.GetUserSettings(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get settings for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if settings.TinkUserID == "" {
			created, err := ac.CreateUser(r.Context(), strconv.FormatInt(userID, 10), settings.Market, settings.Locale)
			if err != nil {
				log.Printf("ERROR: Failed to create provider user for user %d: %v", userID, err)
				http.Error(w, "failed to create bank provider user", http.StatusBadGateway)
				return
			}
			settings.TinkUserID = created.UserID
			if err := sql.SetTinkUserID(r.Context(), pool, userID, created.UserID); err != nil {
				log.Printf("ERROR: Failed to store provider user id for user %d: %v", userID, err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			log.Printf("INFO: Created provider user %s for user %d", created.UserID, userID)
		}

		// Keep the marker row current so connection listings show when the
		// link was last (re)established.
		expiresAt := time.Now().Add(90 * 24 * time.Hour)
		marker, err := sql.GetUserMarkerRequisition(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get marker requisition for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if marker == nil {
			marker = &models.BankRequisition{
				UserID:          userID,
				RequisitionID:   settings.TinkUserID,
				InstitutionID:   "tink",
				InstitutionName: "Tink",
				Status:          "CR",
				Reference:       username,
				ExpiresAt:       expiresAt,
			}
			if err := sql.InsertRequisition(r.Context(), pool, marker); err != nil {
				log.Printf("ERROR: Failed to insert marker requisition for user %d: %v", userID, err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
		} else if err := sql.UpdateMarkerRequisition(r.Context(), pool, marker.ID, settings.TinkUserID, expiresAt); err != nil {
			log.Printf("ERROR: Failed to update marker requisition for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		code, err := ac.DelegateAuthorizationCode(r.Context(), settings.TinkUserID, username)
		if err != nil {
			log.Printf("ERROR: Failed to delegate authorization for user %d: %v", userID, err)
			http.Error(w, "failed to authorize bank connection", http.StatusBadGateway)
			return
		}

		linkURL := client.ConnectAccountsURL(cfg.TinkRedirectURI, settings.Market, settings.Locale, code, cfg.TinkTestMode)

		log.Printf("INFO: Built bank connect URL for user %d", userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"url": linkURL})
	}
}

// ExchangeBankCode is the fast path after the Tink Link callback: trade the
// code for a user token and run a sync immediately instead of waiting for the
// first webhook.
func ExchangeBankCode(client *tink.Client, cfg config.Config, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
			log.Printf("ERROR: Failed to decode exchange code request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		token, err := client.ExchangeCode(r.Context(), req.Code)
		if err != nil {
			log.Printf("ERROR: Failed to exchange authorization code for user %d: %v", userID, err)
			http.Error(w, "failed to exchange code", http.StatusBadGateway)
			return
		}

		fetched, err := syncBankData(r.Context(), client.WithAccessToken(token.AccessToken), pool, userID)
		logSync(r.Context(), pool, userID, "manual", fetched, err)
		if err != nil {
			// Accounts are already persisted at this point; a transaction
			// listing failure degrades to an accounts-only success.
			if errors.Is(err, errTransactionsUnavailable) {
				log.Printf("ERROR: Transactions unavailable after code exchange for user %d: %v", userID, err)
				db.ClearAllBankCaches()
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]interface{}{
					"fetched": 0,
					"warning": "accounts connected, transactions not yet available",
				})
				return
			}
			log.Printf("ERROR: Sync after code exchange failed for user %d: %v", userID, err)
			http.Error(w, "failed to sync bank data", http.StatusBadGateway)
			return
		}

		db.ClearAllBankCaches()
		log.Printf("INFO: Code exchange and sync complete for user %d, %d transactions staged", userID, fetched)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"fetched": fetched})
	}
}

// HandleBankCallback completes the Tink Link redirect: ask the provider to
// refresh the newly added credential, then sync accounts and transactions.
func HandleBankCallback(client *tink.Client, cfg config.Config, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			CredentialsID string `json:"credentials_id"`
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		settings, err := sql.GetUserSettings(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get settings for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if settings.TinkUserID == "" {
			http.Error(w, "no bank connection", http.StatusBadRequest)
			return
		}

		token, err := client.UserAccessToken(r.Context(), settings.TinkUserID)
		if err != nil {
			log.Printf("ERROR: Failed to get user token for callback, user %d: %v", userID, err)
			http.Error(w, "failed to reach bank provider", http.StatusBadGateway)
			return
		}
		uc := client.WithAccessToken(token.AccessToken)

		if req.CredentialsID != "" {
			// Best effort: the sync below still sees whatever the provider has.
			if err := uc.RefreshCredentials(r.Context(), req.CredentialsID); err != nil {
				log.Printf("ERROR: Failed to refresh credentials %s for user %d: %v", req.CredentialsID, userID, err)
			}
		}

		fetched, err := syncBankData(r.Context(), uc, pool, userID)
		logSync(r.Context(), pool, userID, "callback", fetched, err)
		if err != nil {
			log.Printf("ERROR: Callback sync failed for user %d: %v", userID, err)
			http.Error(w, "failed to sync bank data", http.StatusBadGateway)
			return
		}

		db.ClearAllBankCaches()
		log.Printf("INFO: Callback sync complete for user %d, %d transactions staged", userID, fetched)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"fetched": fetched})
	}
}

func SyncBank(client *tink.Client, cfg config.Config, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		fetched, err := syncBankForUser(r.Context(), client, pool, userID)
		logSync(r.Context(), pool, userID, "manual", fetched, err)
		if err != nil {
			log.Printf("ERROR: Bank sync failed for user %d: %v", userID, err)
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		db.ClearAllBankCaches()
		log.Printf("INFO: Bank sync complete for user %d, %d transactions staged", userID, fetched)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"fetched": fetched})
	}
}

// ImportBankTransactions moves staged rows into the monthly ledger. With no
// body it imports everything still pending.
func ImportBankTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			TransactionIDs []int64 `json:"transaction_ids"`
		}
		if r.Body != nil {
			// Body is optional
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		var staged []models.BankTransaction
		var err error
		if len(req.TransactionIDs) > 0 {
			staged, err = sql.GetStagedTransactionsByIDs(r.Context(), pool, userID, req.TransactionIDs)
		} else {
			staged, err = sql.ListStagedTransactionsForUser(r.Context(), pool, userID, true)
		}
		if err != nil {
			log.Printf("ERROR: Failed to load staged transactions for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		imp, err := buildImporter(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to build importer for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		result, err := imp.ImportStaged(r.Context(), userID, staged)
		if err != nil {
			log.Printf("ERROR: Import aborted for user %d: %v", userID, err)
			http.Error(w, "import aborted", http.StatusInternalServerError)
			return
		}

		db.ClearAllFinanceCaches()
		db.ClearAllBankCaches()
		log.Printf("INFO: Imported %d staged transactions for user %d (%d skipped)", result.Imported, userID, result.Skipped)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

func GetBankAccounts(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accounts, err := sql.ListBankAccountsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get bank accounts for user %d: %v", userID, err)
			http.Error(w, "failed to get bank accounts", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(accounts)
	}
}

func GetStagedBankTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		onlyPending := r.URL.Query().Get("pending") == "true"
		transactions, err := sql.ListStagedTransactionsForUser(r.Context(), pool, userID, onlyPending)
		if err != nil {
			log.Printf("ERROR: Failed to get staged transactions for user %d: %v", userID, err)
			http.Error(w, "failed to get staged transactions", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(transactions)
	}
}

func GetBankConnections(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		requisitions, err := sql.ListRequisitionsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get bank connections for user %d: %v", userID, err)
			http.Error(w, "failed to get bank connections", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(requisitions)
	}
}

// DisconnectBank removes one bank connection: revoke provider-side, then drop
// the local accounts and requisition. Staged and imported rows stay.
func DisconnectBank(client *tink.Client, cfg config.Config, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		reqIDStr := chi.URLParam(r, "requisition_id")
		reqID, err := strconv.ParseInt(reqIDStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid requisition id", http.StatusBadRequest)
			return
		}

		requisition, err := sql.GetRequisitionByLocalID(r.Context(), pool, userID, reqID)
		if err != nil {
			log.Printf("ERROR: Failed to get requisition %d for user %d: %v", reqID, userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if requisition == nil {
			http.Error(w, "connection not found", http.StatusNotFound)
			return
		}

		settings, err := sql.GetUserSettings(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get settings for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if requisition.InstitutionID != "tink" && settings.TinkUserID != "" {
			token, err := client.UserAccessToken(r.Context(), settings.TinkUserID)
			if err != nil {
				log.Printf("ERROR: Failed to get user token for disconnect, user %d: %v", userID, err)
				http.Error(w, "failed to reach bank provider", http.StatusBadGateway)
				return
			}
			if err := client.WithAccessToken(token.AccessToken).DeleteCredentials(r.Context(), requisition.RequisitionID); err != nil {
				log.Printf("ERROR: Failed to revoke credentials %s for user %d: %v", requisition.RequisitionID, userID, err)
				http.Error(w, "failed to revoke bank connection", http.StatusBadGateway)
				return
			}
		}

		if err := sql.DeleteBankAccountsForRequisition(r.Context(), pool, userID, reqID); err != nil {
			log.Printf("ERROR: Failed to delete accounts for requisition %d, user %d: %v", reqID, userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if err := sql.DeleteRequisition(r.Context(), pool, userID, reqID); err != nil {
			log.Printf("ERROR: Failed to delete requisition %d for user %d: %v", reqID, userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		db.ClearAllBankCaches()
		log.Printf("INFO: Disconnected bank connection %d for user %d", reqID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "bank connection removed"})
	}
}

// BankWebhook handles provider refresh notifications. The signature is
// checked before anything else; the body is untrusted until then.
func BankWebhook(client *tink.Client, cfg config.Config, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		if err := util.VerifyWebhookSignature(cfg.TinkWebhookSecret, r.Header.Get("X-Tink-Signature"), body); err != nil {
			log.Printf("ERROR: Webhook signature verification failed: %v", err)
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}

		var event struct {
			Event   string `json:"event"`
			Context struct {
				UserID         string `json:"userId"`
				ExternalUserID string `json:"externalUserId"`
			} `json:"context"`
		}
		if err := json.Unmarshal(body, &event); err != nil {
			log.Printf("ERROR: Failed to decode webhook body: %v", err)
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}

		if event.Event != "refresh:finished" {
			log.Printf("INFO: Ignoring webhook event %q", event.Event)
			w.WriteHeader(http.StatusOK)
			return
		}

		userID, err := sql.GetUserIDByTinkUserID(r.Context(), pool, event.Context.UserID)
		if err != nil {
			log.Printf("ERROR: Failed to resolve webhook user %s: %v", event.Context.UserID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if userID == 0 {
			log.Printf("ERROR: Webhook for unknown provider user %s", event.Context.UserID)
			w.WriteHeader(http.StatusOK)
			return
		}

		fetched, err := syncBankForUser(r.Context(), client, pool, userID)
		logSync(r.Context(), pool, userID, "webhook", fetched, err)
		if err != nil {
			log.Printf("ERROR: Webhook sync failed for user %d: %v", userID, err)
			http.Error(w, "sync failed", http.StatusInternalServerError)
			return
		}

		db.ClearAllBankCaches()
		log.Printf("INFO: Webhook sync complete for user %d, %d transactions staged", userID, fetched)
		w.WriteHeader(http.StatusOK)
	}
}

// syncBankForUser obtains a delegated user token and runs the account and
// transaction sync.
func syncBankForUser(ctx context.Context, client *tink.Client, pool *pgxpool.Pool, userID int64) (int, error) {
	settings, err := sql.GetUserSettings(ctx, pool, userID)
	if err != nil {
		return 0, err
	}
	if settings.TinkUserID == "" {
		return 0, fmt.Errorf("no bank connection for user %d", userID)
	}

	token, err := client.UserAccessToken(ctx, settings.TinkUserID)
	if err != nil {
		return 0, fmt.Errorf("user token: %w", err)
	}
	return syncBankData(ctx, client.WithAccessToken(token.AccessToken), pool, userID)
}

// syncBankData pulls credentials, accounts, and transactions with an already
// authorized client and stages what is new. Returns the number of newly
// staged transactions.
func syncBankData(ctx context.Context, uc *tink.Client, pool *pgxpool.Pool, userID int64) (int, error) {
	credentials, err := uc.ListCredentials(ctx)
	if err != nil {
		return 0, fmt.Errorf("list credentials: %w", err)
	}

	// One requisition row per provider credential.
	requisitionByCredentials := make(map[string]int64, len(credentials))
	for _, cred := range credentials {
		existing, err := sql.GetRequisitionByProviderID(ctx, pool, userID, cred.ID)
		if err != nil {
			return 0, fmt.Errorf("get requisition: %w", err)
		}
		if existing == nil {
			requisition := &models.BankRequisition{
				UserID:          userID,
				RequisitionID:   cred.ID,
				InstitutionID:   "tink-bank",
				InstitutionName: cred.ProviderName,
				Status:          cred.Status,
				Reference:       cred.UserID,
				ExpiresAt:       time.UnixMilli(cred.SessionExpiryDate),
			}
			if err := sql.InsertRequisition(ctx, pool, requisition); err != nil {
				return 0, fmt.Errorf("insert requisition: %w", err)
			}
			existing = requisition
		}
		requisitionByCredentials[cred.ID] = existing.ID
	}

	accounts, err := uc.ListAccounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}

	accountIDs := make([]string, 0, len(accounts))
	localByProviderID := make(map[string]int64, len(accounts))
	for _, acc := range accounts {
		if acc.Closed {
			continue
		}
		account := &models.BankAccount{
			UserID:         userID,
			RequisitionID:  requisitionByCredentials[acc.CredentialsID],
			AccountID:      acc.ID,
			IBAN:           acc.AccountNumber,
			AccountName:    acc.Name,
			CurrentBalance: decimal.NewFromFloat(acc.Balance),
			Currency:       acc.CurrencyCode,
			IsActive:       !acc.Excluded,
		}
		if _, err := sql.UpsertBankAccount(ctx, pool, account); err != nil {
			return 0, fmt.Errorf("upsert account %s: %w", acc.ID, err)
		}
		localByProviderID[acc.ID] = account.ID
		accountIDs = append(accountIDs, acc.ID)
	}

	if len(accountIDs) == 0 {
		return 0, nil
	}

	transactions, err := uc.ListTransactions(ctx, accountIDs)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errTransactionsUnavailable, err)
	}

	staged := 0
	for _, tx := range transactions {
		localID, ok := localByProviderID[tx.AccountID]
		if !ok {
			continue
		}
		bookingDate := time.UnixMilli(tx.Date).UTC().Truncate(24 * time.Hour)
		valueDate := bookingDate
		if tx.Timestamp > 0 {
			valueDate = time.UnixMilli(tx.Timestamp).UTC().Truncate(24 * time.Hour)
		}
		row := &models.BankTransaction{
			UserID:        userID,
			BankAccountID: localID,
			TransactionID: tx.ID,
			Amount:        decimal.NewFromFloat(tx.Amount),
			Currency:      tx.CurrencyCode,
			BookingDate:   bookingDate,
			ValueDate:     valueDate,
			MerchantName:  importer.MerchantName(tx.Description),
			Description:   tx.Description,
			Pending:       tx.Pending,
		}
		inserted, err := sql.InsertStagedTransaction(ctx, pool, row)
		if err != nil {
			log.Printf("ERROR: Failed to stage transaction %s for user %d: %v", tx.ID, userID, err)
			continue
		}
		if inserted {
			staged++
		}
	}

	if err := sql.DeleteOrphanedRequisitions(ctx, pool, userID); err != nil {
		log.Printf("ERROR: Failed to clean up orphaned requisitions for user %d: %v", userID, err)
	}
	return staged, nil
}

// buildImporter assembles the categorizer from the user's rules and wraps the
// storage behind the import pipeline.
func buildImporter(ctx context.Context, pool *pgxpool.Pool, userID int64) (*importer.Importer, error) {
	rules, err := sql.GetAllCategoryRules(ctx, pool, userID)
	if err != nil {
		return nil, err
	}
	categories, err := sql.GetAllCategories(ctx, pool, userID)
	if err != nil {
		return nil, err
	}
	compiled, fallback := categorizer.BuildRules(rules, categories)
	return importer.New(sql.NewStore(pool), categorizer.New(compiled, fallback)), nil
}

func logSync(ctx context.Context, pool *pgxpool.Pool, userID int64, syncType string, fetched int, syncErr error) {
	status := "success"
	var message *string
	if syncErr != nil {
		status = "failed"
		text := syncErr.Error()
		message = &text
	}
	if err := sql.InsertSyncLog(ctx, pool, userID, syncType, status, fetched, message); err != nil {
		log.Printf("ERROR: Failed to record sync log for user %d: %v", userID, err)
	}
}
