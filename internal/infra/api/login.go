package api

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/mail"
	"strings"

	"gym-membership-platform/internal/domain"
	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/repository"
	"gym-membership-platform/internal/infra/logging"
)

// ===== passwordless login =====
//
// Members authenticate with a short-lived emailed code. A successful verify
// mints the session cookie; first-time logins create the account row on the
// fly, so there is no separate registration step.

func generateLoginCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(addr.Address), nil
}

func (s *Server) handleRequestLoginCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	email, err := normalizeEmail(body.Email)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "a valid email is required")
		return
	}

	code, err := generateLoginCode()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := s.otp.Put(r.Context(), email, code); err != nil {
		s.log.Error().Err(err).Msg("storing login code failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := s.notifier.SendLoginCode(r.Context(), email, code); err != nil {
		s.log.Error().Err(err).Str("email", logging.Redact(email)).Msg("login code mail failed")
		writeError(w, http.StatusInternalServerError, "could not send login code")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "code sent"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	email, err := normalizeEmail(body.Email)
	if err != nil || body.Code == "" {
		writeError(w, http.StatusUnprocessableEntity, "email and code are required")
		return
	}

	if err := s.otp.Verify(r.Context(), email, body.Code); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusUnauthorized, "invalid or expired code")
			return
		}
		s.log.Error().Err(err).Msg("login code verify failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	account, err := s.members.FindByEmail(r.Context(), repository.NoTX, email)
	if errors.Is(err, domain.ErrNotFound) {
		account, err = model.NewMemberAccount("", email)
		if err == nil {
			err = s.members.Save(r.Context(), repository.NoTX, account)
		}
	}
	if err != nil {
		s.log.Error().Err(err).Str("email", logging.Redact(email)).Msg("account lookup failed on login")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	role := "member"
	if account.IsAdmin {
		role = "admin"
	}
	token, err := s.auth.Mint(w, account.ID, role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":             token,
		"member_id":         account.ID,
		"profile_completed": account.ProfileCompleted,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
