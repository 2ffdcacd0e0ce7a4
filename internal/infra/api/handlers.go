package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"smallbiz-billing/internal/domain"
	"smallbiz-billing/internal/infra/logging"
	"smallbiz-billing/internal/infra/payment"
	"smallbiz-billing/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Handler for creating a hosted checkout session.
func (s *Server) initiateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := logging.UserID(ctx)

		authURL, reference, err := s.billingUC.Initiate(ctx, userID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrAlreadyPro):
				writeJSON(w, http.StatusConflict, map[string]string{"error": "already_pro"})
			case errors.Is(err, domain.ErrNoBillingEmail):
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "no_billing_email"})
			case errors.Is(err, domain.ErrNotFound):
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile_not_found"})
			default:
				writeJSON(w, http.StatusBadGateway, map[string]string{"error": "initiate_failed"})
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"authorization_url": authURL,
			"reference":         reference,
		})
	}
}

// verifyHandler is the browser redirect callback from the hosted checkout
// page. The outcome lands as a redirect, never a JSON body.
func (s *Server) verifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q := r.URL.Query()
		reference := q.Get("reference")
		if reference == "" {
			reference = q.Get("trxref")
		}
		if reference == "" {
			reference = q.Get("ref")
		}
		if reference == "" {
			http.Redirect(w, r, s.pricingURL+"?error=missing_ref", http.StatusFound)
			return
		}

		if _, err := s.billingUC.GrantPro(ctx, reference); err != nil {
			l := logging.With(ctx, s.log)
			l.Warn().Err(err).Str("reference", reference).Msg("redirect verification failed")
			http.Redirect(w, r, s.pricingURL+"?error="+usecase.GrantFailureReason(err), http.StatusFound)
			return
		}
		http.Redirect(w, r, s.dashboardURL+"?upgraded=pro", http.StatusFound)
	}
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// webhookHandler processes provider webhook deliveries. The response is 200
// on every path so the provider never retries into a business failure;
// reconciliation problems surface through logs and metrics instead.
func (s *Server) webhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		l := logging.With(ctx, s.log)

		ack := func() { writeJSON(w, http.StatusOK, map[string]bool{"received": true}) }

		body, err := io.ReadAll(r.Body)
		if err != nil {
			l.Warn().Err(err).Msg("webhook body read failed")
			ack()
			return
		}

		sig := r.Header.Get(payment.SignatureHeader)
		if !payment.ValidSignature(s.paystackSecret, body, sig) {
			l.Warn().Msg("webhook signature mismatch")
			ack()
			return
		}

		var ev webhookEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			l.Warn().Err(err).Msg("webhook payload unparseable")
			ack()
			return
		}
		if ev.Event != "charge.success" || ev.Data.Reference == "" {
			ack()
			return
		}

		if userID, err := s.billingUC.GrantPro(ctx, ev.Data.Reference); err != nil {
			l.Warn().Err(err).Str("reference", ev.Data.Reference).Msg("webhook reconciliation failed")
		} else {
			l.Info().Str("reference", ev.Data.Reference).Str("user_id", userID).Msg("webhook reconciled")
		}
		ack()
	}
}

// recheckHandler is the self-service "I paid but I'm still on free" button.
func (s *Server) recheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := logging.UserID(ctx)

		message, err := s.billingUC.Recheck(ctx, userID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrPaymentNotFound):
				writeJSON(w, http.StatusOK, map[string]interface{}{
					"ok":      false,
					"message": "No payment found for this account",
				})
			case errors.Is(err, domain.ErrNotFound):
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile_not_found"})
			default:
				writeJSON(w, http.StatusOK, map[string]interface{}{
					"ok":      false,
					"message": "Verification failed: " + usecase.GrantFailureReason(err),
				})
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":      true,
			"plan":    "pro",
			"message": message,
		})
	}
}

type verifyPaymentRequest struct {
	Reference string `json:"reference"`
}

// Handler for the admin manual re-verification of a single reference.
func (s *Server) adminVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req verifyPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Reference) == "" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "missing_reference"})
			return
		}

		userID, err := s.billingUC.GrantPro(ctx, req.Reference)
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"ok":     false,
				"reason": usecase.GrantFailureReason(err),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":      true,
			"user_id": userID,
		})
	}
}

func (s *Server) adminSyncHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updated, total, err := s.billingUC.SyncPaidToPro(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "sync_failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":      true,
			"updated": updated,
			"total":   total,
		})
	}
}

// adminStatsHandler serves revenue and payment counters.
func (s *Server) adminStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		day, week, month, err := s.statsUC.Revenue(ctx)
		if err != nil {
			http.Error(w, "Failed to get revenue", http.StatusInternalServerError)
			return
		}
		pending, success, err := s.statsUC.PaymentCounts(ctx)
		if err != nil {
			http.Error(w, "Failed to get payment counts", http.StatusInternalServerError)
			return
		}

		response := struct {
			Revenue struct {
				Day   int64 `json:"day"`
				Week  int64 `json:"week"`
				Month int64 `json:"month"`
			} `json:"revenue"`
			Payments struct {
				Pending int `json:"pending"`
				Success int `json:"success"`
			} `json:"payments"`
		}{}
		response.Revenue.Day = day
		response.Revenue.Week = week
		response.Revenue.Month = month
		response.Payments.Pending = pending
		response.Payments.Success = success

		writeJSON(w, http.StatusOK, response)
	}
}

type insightsRequest struct {
	Question string `json:"question"`
}

func (s *Server) insightsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := logging.UserID(ctx)

		var req insightsRequest
		if r.Body != nil {
			// An empty body is fine; the summary alone is a valid prompt.
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		answer, err := s.insightsUC.BusinessInsights(ctx, userID, req.Question)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrProRequired):
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "pro_required"})
			case errors.Is(err, domain.ErrNotFound):
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile_not_found"})
			default:
				writeJSON(w, http.StatusBadGateway, map[string]string{"error": "insights_unavailable"})
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"insights": answer})
	}
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
