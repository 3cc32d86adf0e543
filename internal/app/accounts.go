package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// User is an authenticated account plus its profile document.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
}

type registerReq struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// emailForUsername maps a bare username onto the app's local email domain.
// Users may also sign in with a full email address directly.
func emailForUsername(username string) string {
	username = strings.TrimSpace(username)
	if strings.Contains(username, "@") {
		return username
	}
	return username + "@courtmanager.local"
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// POST /api/auth/register
func (a *App) RegisterHandler(c *gin.Context) {
	var req registerReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.Username == "" || req.DisplayName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and display_name required"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 6 characters"})
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	u := User{
		ID:           uuid.NewString(),
		Email:        emailForUsername(req.Username),
		Username:     strings.ToLower(strings.TrimSpace(strings.Split(req.Username, "@")[0])),
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
	}

	ctx := c.Request.Context()
	q := `INSERT INTO users (id, email, username, display_name, password_hash, created_at)
	      VALUES ($1,$2,$3,$4,$5, now()) RETURNING created_at`
	if err := a.DB.QueryRow(ctx, q, u.ID, u.Email, u.Username, u.DisplayName, u.PasswordHash).Scan(&u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := a.mintToken(&u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusCreated, authResponse{Token: token, User: u})
}

// POST /api/auth/login
func (a *App) LoginHandler(c *gin.Context) {
	var req loginReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := a.getUserByEmail(c.Request.Context(), emailForUsername(req.Username))
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if verifyPassword(u.PasswordHash, req.Password) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := a.mintToken(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, authResponse{Token: token, User: *u})
}

// GET /api/auth/me
func (a *App) MeHandler(c *gin.Context) {
	u, err := a.getUserByID(c.Request.Context(), currentUserID(c))
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

// POST /api/auth/logout
//
// Tokens are stateless; sign-out is the client dropping its token. The
// endpoint exists so the client has a single formal teardown call.
func (a *App) LogoutHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *App) getUserByEmail(ctx context.Context, email string) (*User, error) {
	return a.scanUser(a.DB.QueryRow(ctx,
		`SELECT id, email, username, display_name, password_hash, created_at FROM users WHERE email=$1`, email))
}

func (a *App) getUserByID(ctx context.Context, id string) (*User, error) {
	return a.scanUser(a.DB.QueryRow(ctx,
		`SELECT id, email, username, display_name, password_hash, created_at FROM users WHERE id=$1`, id))
}

func (a *App) scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.DisplayName, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
