package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/config"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/db"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/repository"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/service"
)

// env bundles everything a command needs against a live database.
type env struct {
	db           *sql.DB
	transactions *repository.TransactionRepository
	accounts     *repository.AccountRepository
	devices      *repository.DeviceRepository
	ingestion    *service.IngestionService
	stepUp       *service.StepUpService
	alertSvc     *service.AlertService
}

func newEnv() (*env, error) {
	godotenv.Load()
	cfg := config.New()

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}

	database, err := db.ConnectPostgres(cfg)
	if err != nil {
		return nil, err
	}

	transactionRepo := repository.NewTransactionRepository(database)
	accountRepo := repository.NewAccountRepository(database)
	alertRepo := repository.NewAlertRepository(database)
	merchantRepo := repository.NewMerchantRepository(database)
	ruleRepo := repository.NewAlertRuleRepository(database)
	deviceRepo := repository.NewDeviceRepository(database)
	authRepo := repository.NewAuthRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)
	ruleRunner := repository.NewDBRuleRunner(database)

	notifier := service.NewOperatorNotifier(notificationRepo, logger)
	resolver := service.NewRuleConfigResolver(ruleRepo, service.DefaultRuleConfig(cfg), logger)
	classifier := service.NewRiskClassifier(merchantRepo, logger)
	engine := service.NewRuleEngine(transactionRepo, alertRepo, resolver, classifier, ruleRunner, notifier, logger)

	return &env{
		db:           database,
		transactions: transactionRepo,
		accounts:     accountRepo,
		devices:      deviceRepo,
		ingestion:    service.NewIngestionService(transactionRepo, accountRepo, engine, logger),
		stepUp:       service.NewStepUpService(transactionRepo, accountRepo, alertRepo, authRepo, notifier, logger),
		alertSvc:     service.NewAlertService(alertRepo, logger),
	}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "fraudctl",
		Short: "Transaction monitoring CLI",
	}

	rootCmd.AddCommand(addTransactionCmd())
	rootCmd.AddCommand(listTransactionsCmd())
	rootCmd.AddCommand(listAlertsCmd())
	rootCmd.AddCommand(listDevicesCmd())
	rootCmd.AddCommand(resolveAlertCmd())
	rootCmd.AddCommand(stepUpCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addTransactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-transaction",
		Short: "Insert a transaction, link a device (optional), and run detection",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			defer e.db.Close()
			ctx := context.Background()

			accountID, _ := cmd.Flags().GetInt("account")
			merchantID, _ := cmd.Flags().GetInt("merchant")
			amount, _ := cmd.Flags().GetFloat64("amount")
			currency, _ := cmd.Flags().GetString("currency")
			direction, _ := cmd.Flags().GetString("direction")
			status, _ := cmd.Flags().GetString("status")
			fingerprint, _ := cmd.Flags().GetString("fingerprint")
			deviceLabel, _ := cmd.Flags().GetString("device-label")

			var merchantRef *int
			if merchantID > 0 {
				merchantRef = &merchantID
			}

			var deviceRef *int
			if fingerprint != "" {
				account, err := e.accounts.GetByID(ctx, accountID)
				if err != nil {
					return err
				}
				deviceID, err := e.devices.GetOrCreate(ctx, account.CustomerID, fingerprint, deviceLabel)
				if err != nil {
					return err
				}
				deviceRef = &deviceID
				fmt.Printf("linked device fingerprint=%q label=%q\n", fingerprint, deviceLabel)
			}

			txID, err := e.ingestion.Ingest(ctx, service.IngestRequest{
				AccountID:  accountID,
				MerchantID: merchantRef,
				DeviceID:   deviceRef,
				Amount:     decimal.NewFromFloat(amount),
				Currency:   currency,
				Direction:  direction,
				Status:     status,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Inserted transaction #%d (acct=%d, amt=%.2f %s)\n", txID, accountID, amount, currency)

			alerts, err := e.alertSvc.ListForTransaction(ctx, txID)
			if err != nil {
				return err
			}
			if len(alerts) == 0 {
				fmt.Println("No alerts created.")
				return nil
			}
			fmt.Println("Alert(s) created:")
			for _, a := range alerts {
				fmt.Printf("  - Alert #%d | rule=%s | sev=%s | status=%s | at=%s\n",
					a.ID, a.RuleCode, a.Severity, a.Status, a.CreatedTS.Format("2006-01-02 15:04:05"))
			}

			required, err := e.stepUp.Required(ctx, txID)
			if err != nil {
				return err
			}
			if required {
				if err := e.stepUp.Begin(ctx, txID); err != nil {
					return err
				}
				fmt.Println("Transaction held for step-up verification.")
			}
			return nil
		},
	}

	cmd.Flags().Int("account", 0, "Account id")
	cmd.Flags().Int("merchant", 0, "Merchant id (optional)")
	cmd.Flags().Float64("amount", 0, "Transaction amount")
	cmd.Flags().String("currency", "USD", "Currency code")
	cmd.Flags().String("direction", "debit", "debit or credit")
	cmd.Flags().String("status", "approved", "Initial status")
	cmd.Flags().String("fingerprint", "", "Device fingerprint to link (optional)")
	cmd.Flags().String("device-label", "", "Human label for the device (optional)")
	cmd.MarkFlagRequired("account")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-transactions",
		Short: "List recent transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			defer e.db.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			rows, err := e.transactions.ListRecent(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("No transactions.")
				return nil
			}
			for _, t := range rows {
				fmt.Printf("[%d] acct=%d amt=%s %s dir=%s status=%s at=%s\n",
					t.ID, t.AccountID, t.Amount, t.Currency, t.Direction, t.Status,
					t.TS.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum rows")
	return cmd
}

func listAlertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-alerts",
		Short: "List recent open alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			defer e.db.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			items, err := e.alertSvc.Feed(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No open alerts.")
				return nil
			}
			for _, item := range items {
				a := item.Alert
				fmt.Printf("[%d] txn=%d rule=%s sev=%s status=%s amt=%s %s at=%s\n",
					a.ID, a.TransactionID, a.RuleCode, a.Severity, a.Status,
					item.Amount, item.Currency, a.CreatedTS.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum rows")
	return cmd
}

func listDevicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-devices",
		Short: "List devices, optionally for one customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			defer e.db.Close()

			customerID, _ := cmd.Flags().GetInt("customer")
			limit, _ := cmd.Flags().GetInt("limit")
			devices, err := e.devices.ListRecent(context.Background(), customerID, limit)
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Println("No devices.")
				return nil
			}
			for _, d := range devices {
				fmt.Printf("[%d] cust=%d fp=%s label=%s first=%s\n",
					d.ID, d.CustomerID, d.Fingerprint, d.Label,
					d.FirstSeenTS.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().Int("customer", 0, "Filter by customer id")
	cmd.Flags().Int("limit", 20, "Maximum rows")
	return cmd
}

func resolveAlertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve-alert",
		Short: "Mark an alert cleared or resolved",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			defer e.db.Close()

			alertID, _ := cmd.Flags().GetInt("alert")
			status, _ := cmd.Flags().GetString("status")
			if err := e.alertSvc.Resolve(context.Background(), alertID, status); err != nil {
				return err
			}
			fmt.Printf("Alert %d marked %s.\n", alertID, status)
			return nil
		},
	}
	cmd.Flags().Int("alert", 0, "Alert id")
	cmd.Flags().String("status", "resolved", "cleared or resolved")
	cmd.MarkFlagRequired("alert")
	return cmd
}

func stepUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step-up",
		Short: "Confirm or deny a transaction pending verification",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			defer e.db.Close()

			transactionID, _ := cmd.Flags().GetInt("transaction")
			customerID, _ := cmd.Flags().GetInt("customer")
			pin, _ := cmd.Flags().GetString("pin")
			decision, _ := cmd.Flags().GetString("decision")

			if err := e.stepUp.Confirm(context.Background(), transactionID, customerID, pin, decision); err != nil {
				return err
			}
			fmt.Printf("Transaction %d: step-up %sd.\n", transactionID, decision)
			return nil
		},
	}
	cmd.Flags().Int("transaction", 0, "Transaction id")
	cmd.Flags().Int("customer", 0, "Customer id (account owner)")
	cmd.Flags().String("pin", "", "Step-up PIN")
	cmd.Flags().String("decision", "", "approve or deny")
	cmd.MarkFlagRequired("transaction")
	cmd.MarkFlagRequired("customer")
	cmd.MarkFlagRequired("pin")
	cmd.MarkFlagRequired("decision")
	return cmd
}
