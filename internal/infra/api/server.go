package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"gym-membership-platform/internal/domain"
	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/adapter"
	"gym-membership-platform/internal/domain/ports/repository"
	"gym-membership-platform/internal/infra/logging"
	"gym-membership-platform/internal/infra/redis"
	"gym-membership-platform/internal/usecase"
)

// Server exposes the member-facing and admin JSON API.
type Server struct {
	orderUC    usecase.OrderUseCase
	confirmUC  usecase.ConfirmUseCase
	profileUC  usecase.ProfileUseCase
	deletionUC usecase.DeletionUseCase
	dayPassUC  usecase.DayPassUseCase
	plans      repository.PlanRepository
	members    repository.MemberRepository
	auth       *AuthManager
	otp        *redis.OTPStore
	notifier   adapter.Notifier
	limiter    *redis.RateLimiter
	log        *zerolog.Logger
}

func NewServer(
	orderUC usecase.OrderUseCase,
	confirmUC usecase.ConfirmUseCase,
	profileUC usecase.ProfileUseCase,
	deletionUC usecase.DeletionUseCase,
	dayPassUC usecase.DayPassUseCase,
	plans repository.PlanRepository,
	members repository.MemberRepository,
	auth *AuthManager,
	otp *redis.OTPStore,
	notifier adapter.Notifier,
	limiter *redis.RateLimiter,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "api").Logger()
	return &Server{
		orderUC:    orderUC,
		confirmUC:  confirmUC,
		profileUC:  profileUC,
		deletionUC: deletionUC,
		dayPassUC:  dayPassUC,
		plans:      plans,
		members:    members,
		auth:       auth,
		otp:        otp,
		notifier:   notifier,
		limiter:    limiter,
		log:        &l,
	}
}

// Register attaches all routes to the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", s.handleListPlans)

		otpLimited := Chain(http.HandlerFunc(s.handleRequestLoginCode),
			RateLimit(s.limiter, "auth_otp", 5, time.Minute, s.log))
		r.Method(http.MethodPost, "/auth/otp", otpLimited)

		loginLimited := Chain(http.HandlerFunc(s.handleLogin),
			RateLimit(s.limiter, "auth_login", 10, time.Minute, s.log))
		r.Method(http.MethodPost, "/auth/login", loginLimited)

		r.Post("/auth/logout", s.handleLogout)

		// Webhook is authenticated by its signature, not a session.
		r.Post("/payments/webhook", s.handleWebhook)

		r.Group(func(r chi.Router) {
			r.Use(s.requireMember)

			ordersLimited := Chain(http.HandlerFunc(s.handleCreateOrder),
				RateLimit(s.limiter, "orders", 10, time.Minute, s.log))
			r.Method(http.MethodPost, "/orders", ordersLimited)

			verifyLimited := Chain(http.HandlerFunc(s.handleVerifyPayment),
				RateLimit(s.limiter, "verify", 20, time.Minute, s.log))
			r.Method(http.MethodPost, "/payments/verify", verifyLimited)

			r.Get("/payments", s.handleListPayments)
			r.Get("/day-passes", s.handleListDayPasses)

			r.Post("/profile", s.handleCreateProfile)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)
			r.Delete("/profile", s.handleDeleteProfile)
			r.Delete("/account", s.handleDeleteAccount)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Post("/admin/day-passes/{id}/avail", s.handleMarkDayPassAvailed)
			r.Post("/admin/profiles/{profileID}/extend", s.handleExtendMembership)
			r.Delete("/admin/members/{memberID}", s.handleAdminDeleteMember)
		})
	})
}

// ===== session middleware =====

type claimsKey struct{}

func (s *Server) requireMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		ctx = logging.WithMemberID(ctx, claims.MemberID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !claims.IsAdmin() {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		ctx = logging.WithMemberID(ctx, claims.MemberID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionClaims(r *http.Request) *SessionClaims {
	c, _ := r.Context().Value(claimsKey{}).(*SessionClaims)
	return c
}

// ===== response helpers =====

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeDomainError maps domain sentinels onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrPlanNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrIncompleteDayPassRequest),
		errors.Is(err, domain.ErrMembershipInactive):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrProfileRequired):
		writeError(w, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, domain.ErrSignatureMismatch), errors.Is(err, domain.ErrWebhookSignatureMismatch):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPaymentNotCaptured):
		writeError(w, http.StatusPaymentRequired, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ===== plans =====

type planView struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	DurationDays int      `json:"duration_days"`
	Price        int64    `json:"price"`
	Discount     int      `json:"discount,omitempty"`
	Features     []string `json:"features,omitempty"`
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.ListActive(r.Context(), repository.NoTX)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	items := make([]planView, 0, len(plans))
	for _, p := range plans {
		items = append(items, planView{
			ID:           p.ID,
			Title:        p.Title,
			Description:  p.Description,
			DurationDays: p.DurationDays,
			Price:        p.Price,
			Discount:     p.Discount,
			Features:     p.Features,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// ===== orders =====

type dayPassBody struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	NoOfDays int    `json:"no_of_days"`
	Terms    bool   `json:"terms"`
}

type createOrderBody struct {
	PlanID  string       `json:"plan_id"`
	DayPass *dayPassBody `json:"day_pass,omitempty"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var body createOrderBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if strings.TrimSpace(body.PlanID) == "" {
		writeError(w, http.StatusUnprocessableEntity, "plan_id is required")
		return
	}

	var req *model.DayPassRequest
	if body.DayPass != nil {
		req = &model.DayPassRequest{
			Name:     body.DayPass.Name,
			Age:      body.DayPass.Age,
			Phone:    body.DayPass.Phone,
			Email:    body.DayPass.Email,
			NoOfDays: body.DayPass.NoOfDays,
			Terms:    body.DayPass.Terms,
		}
	}

	inv, err := s.orderUC.CreateOrder(r.Context(), sessionClaims(r).MemberID, body.PlanID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"order_id":   inv.OrderID,
		"payment_id": inv.PaymentID,
		"amount":     inv.Amount,
		"currency":   inv.Currency,
	})
}

// ===== payment confirmation =====

type verifyBody struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var body verifyBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if body.OrderID == "" || body.PaymentID == "" || body.Signature == "" {
		writeError(w, http.StatusUnprocessableEntity, "order id, payment id and signature are required")
		return
	}

	res, err := s.confirmUC.VerifyCallback(r.Context(), body.OrderID, body.PaymentID, body.Signature)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"plan_type":         res.PlanType,
		"end_date":          res.EndDate,
		"already_processed": res.AlreadyProcessed,
	})
}

// handleWebhook reads the raw body before any parsing; the signature covers
// the exact bytes the gateway sent.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	signature := r.Header.Get("X-Razorpay-Signature")

	if _, err := s.confirmUC.HandleWebhook(r.Context(), body, signature); err != nil {
		if errors.Is(err, domain.ErrWebhookSignatureMismatch) {
			writeError(w, http.StatusBadRequest, "bad signature")
			return
		}
		// Transient failure: non-2xx makes the gateway redeliver.
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ===== member payments / day passes =====

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, next, err := s.profileUC.ListPayments(r.Context(), sessionClaims(r).MemberID, cursor, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items, "next_cursor": next})
}

func (s *Server) handleListDayPasses(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, next, err := s.dayPassUC.ListByMember(r.Context(), sessionClaims(r).MemberID, cursor, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items, "next_cursor": next})
}

// ===== profile =====

const maxUploadBytes = 10 << 20

// parseProfileForm reads the multipart profile submission: text fields plus
// optional photo/document files.
func parseProfileForm(r *http.Request) (usecase.ProfileInput, []byte, []byte, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return usecase.ProfileInput{}, nil, nil, err
	}

	height, _ := strconv.ParseFloat(r.FormValue("height"), 64)
	weight, _ := strconv.ParseFloat(r.FormValue("weight"), 64)
	hadCondition, _ := strconv.ParseBool(r.FormValue("had_medical_condition"))
	terms, _ := strconv.ParseBool(r.FormValue("terms"))

	var conditions []string
	if raw := strings.TrimSpace(r.FormValue("conditions")); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				conditions = append(conditions, c)
			}
		}
	}

	in := usecase.ProfileInput{
		Personal: model.PersonalInfo{
			Name:              r.FormValue("name"),
			Email:             r.FormValue("email"),
			Phone:             r.FormValue("phone"),
			Gender:            r.FormValue("gender"),
			DOB:               r.FormValue("dob"),
			EmergencyName:     r.FormValue("emergency_name"),
			EmergencyPhone:    r.FormValue("emergency_phone"),
			EmergencyRelation: r.FormValue("emergency_relation"),
		},
		Health: model.HealthInfo{
			Height:              height,
			Weight:              weight,
			Goal:                r.FormValue("goal"),
			HadMedicalCondition: hadCondition,
			Conditions:          conditions,
			OtherConditions:     r.FormValue("other_conditions"),
		},
		Terms: terms,
	}

	photo, err := formFileBytes(r, "photo")
	if err != nil {
		return usecase.ProfileInput{}, nil, nil, err
	}
	document, err := formFileBytes(r, "document")
	if err != nil {
		return usecase.ProfileInput{}, nil, nil, err
	}
	return in, photo, document, nil
}

func formFileBytes(r *http.Request, field string) ([]byte, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadBytes))
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	in, photo, document, err := parseProfileForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	profile, err := s.profileUC.Create(r.Context(), sessionClaims(r).MemberID, in, photo, document)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profileUC.Get(r.Context(), sessionClaims(r).MemberID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	in, photo, document, err := parseProfileForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	if err := s.profileUC.Update(r.Context(), sessionClaims(r).MemberID, in, photo, document); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.deletionUC.DeleteProfile(r.Context(), sessionClaims(r).MemberID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims := sessionClaims(r)
	if err := s.deletionUC.DeleteAccount(r.Context(), claims.MemberID); err != nil {
		writeDomainError(w, err)
		return
	}
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// ===== admin =====

func (s *Server) handleMarkDayPassAvailed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	already, err := s.dayPassUC.MarkAvailed(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"already_availed": already})
}

func (s *Server) handleExtendMembership(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Days int `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if body.Days <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "days must be positive")
		return
	}

	if err := s.profileUC.ExtendMembership(r.Context(), chi.URLParam(r, "profileID"), body.Days); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "extended"})
}

func (s *Server) handleAdminDeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := s.deletionUC.DeleteAccount(r.Context(), chi.URLParam(r, "memberID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
