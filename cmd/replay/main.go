// Command replay reconstructs payment attempts from an exported event log
// without a database. Events are read as a JSON array from --in or stdin.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/josh-kwaku/payment-attempts/internal/attempt"
	"github.com/josh-kwaku/payment-attempts/internal/domain"
	"github.com/josh-kwaku/payment-attempts/internal/handler"
	"github.com/josh-kwaku/payment-attempts/internal/logging"
)

type eventRecord struct {
	ID                               uuid.UUID       `json:"id"`
	PaymentRequestID                 uuid.UUID       `json:"payment_request_id"`
	EventType                        string          `json:"event_type"`
	InsertedAt                       time.Time       `json:"inserted_at"`
	Amount                           decimal.Decimal `json:"amount"`
	Currency                         string          `json:"currency"`
	Status                           string          `json:"status"`
	ErrorMessage                     string          `json:"error_message"`
	ErrorReason                      string          `json:"error_reason"`
	PaymentProcessor                 string          `json:"payment_processor"`
	CardAuthorizationResponseID      string          `json:"card_authorization_response_id"`
	CardRequestID                    string          `json:"card_request_id"`
	PispPaymentInitiationID          string          `json:"pisp_payment_initiation_id"`
	LightningRHash                   string          `json:"lightning_r_hash"`
	RefundPayoutID                   string          `json:"refund_payout_id"`
	TokenisedCardID                  string          `json:"tokenised_card_id"`
	WalletName                       string          `json:"wallet_name"`
	PispBankStatus                   string          `json:"pisp_bank_status"`
	PaymentInitiationInstitutionID   string          `json:"payment_initiation_institution_id"`
	PaymentInitiationInstitutionName string          `json:"payment_initiation_institution_name"`
	ReconciledTransactionID          string          `json:"reconciled_transaction_id"`
}

func (r eventRecord) toDomain() domain.PaymentEvent {
	processor := domain.PaymentProcessor(r.PaymentProcessor)
	if processor == "" {
		processor = domain.PaymentProcessorNone
	}
	return domain.PaymentEvent{
		ID:                               r.ID,
		PaymentRequestID:                 r.PaymentRequestID,
		EventType:                        domain.PaymentEventType(r.EventType),
		InsertedAt:                       r.InsertedAt,
		Amount:                           r.Amount,
		Currency:                         domain.Currency(r.Currency),
		Status:                           r.Status,
		ErrorMessage:                     r.ErrorMessage,
		ErrorReason:                      r.ErrorReason,
		PaymentProcessor:                 processor,
		CardAuthorizationResponseID:      r.CardAuthorizationResponseID,
		CardRequestID:                    r.CardRequestID,
		PispPaymentInitiationID:          r.PispPaymentInitiationID,
		LightningRHash:                   r.LightningRHash,
		RefundPayoutID:                   r.RefundPayoutID,
		TokenisedCardID:                  r.TokenisedCardID,
		WalletName:                       r.WalletName,
		PispBankStatus:                   r.PispBankStatus,
		PaymentInitiationInstitutionID:   r.PaymentInitiationInstitutionID,
		PaymentInitiationInstitutionName: r.PaymentInitiationInstitutionName,
		ReconciledTransactionID:          r.ReconciledTransactionID,
	}
}

var Version = "dev"

func main() {
	logging.Init("payment-attempts-replay", os.Getenv("LOG_LEVEL"), "development")

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("replay failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		in     string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Reconstruct payment attempts from an exported event log",
		Long: `Reads a JSON array of payment request events and prints the attempts
they reconstruct, with the same fields the HTTP API returns.

Examples:
  replay --in events.json
  psql -At -c "select json_agg(e) from payment_request_events e where ..." | replay`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := cmd.InOrStdin()
			if in != "" {
				f, err := os.Open(in)
				if err != nil {
					return fmt.Errorf("replay: %w", err)
				}
				defer f.Close()
				src = f
			}
			return replay(src, cmd.OutOrStdout(), pretty)
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "path to a JSON array of events (default: stdin)")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "indent the output")

	return cmd
}

func replay(src io.Reader, out io.Writer, pretty bool) error {
	events, err := decodeEvents(src)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	result := attempt.Reconstruct(events)
	if n := result.Diagnostics.Excluded(); n > 0 {
		slog.Warn("events excluded from reconstruction: missing correlation key", "count", n)
	}

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(handler.NewPaymentAttemptsResponse(result)); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return nil
}

func decodeEvents(r io.Reader) ([]domain.PaymentEvent, error) {
	var records []eventRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decodeEvents: %w: %w", domain.ErrInvalidRequest, err)
	}

	events := make([]domain.PaymentEvent, 0, len(records))
	for _, rec := range records {
		events = append(events, rec.toDomain())
	}
	return events, nil
}
