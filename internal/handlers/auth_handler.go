package handlers

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/embedded-iot/unified-be/internal/utils"
)

// AuthHandler logs in the single configured operator account.
type AuthHandler struct {
	userID       string
	username     string
	passwordHash []byte
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// NewAuthHandler accepts the password either in clear or already bcrypt-hashed.
// userID becomes the token subject and must be an ObjectID hex string.
func NewAuthHandler(userID, username, password string) (*AuthHandler, error) {
	if _, err := primitive.ObjectIDFromHex(userID); err != nil {
		return nil, fmt.Errorf("login user id %q: %w", userID, err)
	}
	hash := []byte(password)
	if _, err := bcrypt.Cost(hash); err != nil {
		if hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err != nil {
			return nil, err
		}
	}
	return &AuthHandler{userID: userID, username: username, passwordHash: hash}, nil
}

func (a *AuthHandler) Register(r *mux.Router) {
	r.HandleFunc("/auth/login", a.Login).Methods(http.MethodPost)
}

// POST /auth/login
func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.JSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(req.Username)), []byte(a.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password)) == nil
	if a.username == "" || !userOK || !passOK {
		utils.JSONError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWT(a.userID)
	if err != nil {
		utils.LoggerFromContext(r.Context()).Error("issue token", zap.Error(err))
		utils.JSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, LoginResponse{Token: token})
}
