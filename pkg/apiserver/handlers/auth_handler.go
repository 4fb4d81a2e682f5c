package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/motordesk/motordesk/pkg/auth"
	"github.com/motordesk/motordesk/pkg/model"
	"github.com/motordesk/motordesk/pkg/store/postgres"
	redisclient "github.com/motordesk/motordesk/pkg/store/redis"
)

var (
	errCompanyCodeTaken = errors.New("company code already exists")
	errEmailTaken       = errors.New("email already exists")
)

type AuthHandler struct {
	db       *postgres.Store
	tokens   *auth.TokenManager
	sessions *redisclient.SessionStore
	logger   *zap.Logger
}

func NewAuthHandler(db *postgres.Store, tokens *auth.TokenManager, sessions *redisclient.SessionStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, tokens: tokens, sessions: sessions, logger: logger}
}

type signupRequest struct {
	CompanyName string `json:"companyName" binding:"required"`
	CompanyCode string `json:"companyCode" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Phone       string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// sessionsReady rejects the request when the server runs without a redis
// session store. Tokens cannot be issued or revoked in that state, so the
// auth endpoints refuse up front instead of failing mid-flow.
func (h *AuthHandler) sessionsReady(c *gin.Context) bool {
	if h.sessions != nil {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
	return false
}

// Signup bootstraps a tenant: the company and its first admin user are
// created in one transaction.
func (h *AuthHandler) Signup(c *gin.Context) {
	if !h.sessionsReady(c) {
		return
	}

	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign up"})
		return
	}

	var user *model.User
	txErr := h.db.WithTx(c.Request.Context(), func(tx *gorm.DB) error {
		companies := postgres.NewCompanyRepository(tx)
		users := postgres.NewUserRepository(tx)

		if count, err := companies.CountByCode(c.Request.Context(), req.CompanyCode); err != nil {
			return err
		} else if count > 0 {
			return errCompanyCodeTaken
		}
		if count, err := users.CountByEmail(c.Request.Context(), req.Email); err != nil {
			return err
		} else if count > 0 {
			return errEmailTaken
		}

		company := &model.Company{Name: req.CompanyName, Code: req.CompanyCode}
		if err := companies.Create(c.Request.Context(), company); err != nil {
			return err
		}

		user = &model.User{
			CompanyID:    company.ID,
			Email:        req.Email,
			PasswordHash: hash,
			Name:         req.Name,
			Phone:        req.Phone,
			IsAdmin:      true,
		}
		return users.Create(c.Request.Context(), user)
	})
	if txErr != nil {
		if txErr == errCompanyCodeTaken || txErr == errEmailTaken {
			c.JSON(http.StatusConflict, gin.H{"error": txErr.Error()})
			return
		}
		h.logger.Error("failed to sign up", zap.Error(txErr))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign up"})
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		return
	}
	c.JSON(http.StatusCreated, tokens)
}

func (h *AuthHandler) Login(c *gin.Context) {
	if !h.sessionsReady(c) {
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	users := postgres.NewUserRepository(h.db.DB())
	user, err := users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Refresh rotates the refresh token: the presented jti must still be live
// in the session store and is replaced by the new one.
func (h *AuthHandler) Refresh(c *gin.Context) {
	if !h.sessionsReady(c) {
		return
	}

	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, err := h.tokens.Validate(req.RefreshToken, auth.TokenTypeRefresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if _, err := h.sessions.Get(c.Request.Context(), claims.ID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}

	ident, err := claims.Identity()
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	users := postgres.NewUserRepository(h.db.DB())
	user, err := users.GetByID(c.Request.Context(), ident.CompanyID, ident.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	accessToken, err := h.tokens.GenerateAccessToken(user)
	if err != nil {
		h.logger.Error("failed to generate access token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh"})
		return
	}
	refreshToken, jti, err := h.tokens.GenerateRefreshToken(user)
	if err != nil {
		h.logger.Error("failed to generate refresh token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh"})
		return
	}
	if err := h.sessions.Rotate(c.Request.Context(), claims.ID, jti, user.ID.String()); err != nil {
		h.logger.Error("failed to rotate session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh"})
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if !h.sessionsReady(c) {
		return
	}

	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, err := h.tokens.Validate(req.RefreshToken, auth.TokenTypeRefresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if err := h.sessions.Revoke(c.Request.Context(), claims.ID); err != nil {
		h.logger.Error("failed to revoke session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *AuthHandler) issueTokens(c *gin.Context, user *model.User) (*tokenResponse, error) {
	accessToken, err := h.tokens.GenerateAccessToken(user)
	if err != nil {
		h.logger.Error("failed to generate access token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue tokens"})
		return nil, err
	}
	refreshToken, jti, err := h.tokens.GenerateRefreshToken(user)
	if err != nil {
		h.logger.Error("failed to generate refresh token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue tokens"})
		return nil, err
	}
	if err := h.sessions.Put(c.Request.Context(), jti, user.ID.String()); err != nil {
		h.logger.Error("failed to store session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue tokens"})
		return nil, err
	}
	return &tokenResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
