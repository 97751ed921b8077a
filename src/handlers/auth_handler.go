package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/middleware"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
)

// TokenIssuer signs session tokens.
type TokenIssuer struct {
	Secret []byte
	TTL    time.Duration
}

func (t TokenIssuer) issue(userID int64, email string, superAdmin bool) (string, error) {
	return middleware.NewToken(t.Secret, userID, email, superAdmin, t.TTL)
}

type authResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

func Signup(users UserStore, tokens TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode signup request body: %v", err)
			writeErrorMessage(w, http.StatusBadRequest, "invalid request")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		if !util.ValidateName(req.Name) {
			writeErrorMessage(w, http.StatusBadRequest, "Name must be between 2 and 100 characters")
			return
		}
		if !util.ValidateEmail(req.Email) {
			log.Printf("ERROR: Email validation failed during signup - Email: %s", req.Email)
			writeErrorMessage(w, http.StatusBadRequest, "Invalid email format")
			return
		}
		if problems := util.ValidatePassword(req.Password); len(problems) > 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:   "Password does not meet requirements",
				Details: problems,
			})
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash password for %s: %v", req.Email, err)
			writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		resp, err := users.CreateUser(r.Context(), req, hashedPassword)
		if errors.Is(err, db.ErrEmailTaken) {
			log.Printf("ERROR: Signup failed - email already registered: %s", req.Email)
			writeErrorMessage(w, http.StatusConflict, "An account with this email already exists")
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to create user %s: %v", req.Email, err)
			writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		token, err := tokens.issue(resp.ID, resp.Email, resp.SuperAdmin)
		if err != nil {
			log.Printf("ERROR: Failed to generate token for user %d: %v", resp.ID, err)
			writeErrorMessage(w, http.StatusInternalServerError, "Error generating token")
			return
		}

		log.Printf("INFO: Successful signup - User ID: %d", resp.ID)
		writeJSON(w, http.StatusCreated, authResponse{Token: token, User: resp})
	}
}

func Signin(users UserStore, tokens TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("ERROR: Failed to decode signin request body: %v", err)
			writeErrorMessage(w, http.StatusBadRequest, "invalid request")
			return
		}
		email := strings.ToLower(strings.TrimSpace(credentials.Email))
		if email == "" || credentials.Password == "" {
			writeErrorMessage(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		user, err := users.GetUserByEmail(r.Context(), email)
		if errors.Is(err, db.ErrUserNotFound) {
			log.Printf("ERROR: Signin for unknown email %s from IP %s", email, r.RemoteAddr)
			writeErrorMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to look up user %s: %v", email, err)
			writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(credentials.Password)); err != nil {
			log.Printf("ERROR: Invalid password attempt for %s from IP %s", email, r.RemoteAddr)
			writeErrorMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := tokens.issue(user.ID, user.Email, user.SuperAdmin)
		if err != nil {
			log.Printf("ERROR: Failed to generate token for user %d: %v", user.ID, err)
			writeErrorMessage(w, http.StatusInternalServerError, "Error generating token")
			return
		}

		if err := users.UpdateLastLogin(r.Context(), user.ID); err != nil {
			log.Printf("ERROR: Failed to update last_login for user %d: %v", user.ID, err)
		}

		log.Printf("INFO: Successful signin - User ID: %d", user.ID)
		writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
	}
}
