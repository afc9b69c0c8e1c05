package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"beautyconsult-backend/models"
	"beautyconsult-backend/repositories"
	"beautyconsult-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	users       repositories.UserRepository
	secret      string
	expiryHours int
}

func NewAuthController(users repositories.UserRepository, secret string, expiryHours int) *AuthController {
	return &AuthController{users: users, secret: secret, expiryHours: expiryHours}
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"max=100"`
	Phone    string `json:"phone"`
}

type CreateUserInput struct {
	RegisterInput
	Role string `json:"role" binding:"required,oneof=admin staff"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a staff account
func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if !utils.BindAndValidate(c, &input) {
		return
	}
	user, err := ac.createUser(c.Request.Context(), input, models.RoleStaff)
	if err != nil {
		respondError(c, err)
		return
	}
	ac.respondWithToken(c, http.StatusCreated, user)
}

// CreateUser lets an admin create accounts of either role
func (ac *AuthController) CreateUser(c *gin.Context) {
	var input CreateUserInput
	if !utils.BindAndValidate(c, &input) {
		return
	}
	user, err := ac.createUser(c.Request.Context(), input.RegisterInput, input.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (ac *AuthController) createUser(ctx context.Context, input RegisterInput, role string) (*models.User, error) {
	phone, err := normalizeContactPhone(input.Phone)
	if err != nil {
		return nil, err
	}
	if _, err := ac.users.FindByUsername(ctx, input.Username); err == nil {
		return nil, repositories.ErrDuplicate
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username: input.Username,
		Password: hashed,
		Name:     input.Name,
		Phone:    phone,
		Role:     role,
		IsActive: true,
	}
	if err := ac.users.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Str("username", user.Username).Str("role", role).Msg("user created")
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (ac *AuthController) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := ac.users.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	_, err = ac.createUser(ctx, RegisterInput{Username: username, Password: password, Name: username}, models.RoleAdmin)
	return err
}

// Login authenticates by username and password
func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	ctx := c.Request.Context()
	user, err := ac.users.FindByUsername(ctx, input.Username)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && !utils.CheckPasswordHash(input.Password, user.Password)) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	now := time.Now()
	if err := ac.users.TouchLogin(ctx, user.ID, now); err != nil {
		log.Warn().Err(err).Str("username", user.Username).Msg("failed to record login")
	}
	user.LastLogin = &now
	ac.respondWithToken(c, http.StatusOK, user)
}

func (ac *AuthController) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := utils.GenerateToken(ac.secret, ac.expiryHours, user.ID.String(), user.Username, user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	c.JSON(status, AuthResponse{Token: token, User: user})
}

// Me returns the authenticated user
func (ac *AuthController) Me(c *gin.Context) {
	user, ok := ac.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

func (ac *AuthController) currentUser(c *gin.Context) (*models.User, bool) {
	id, err := uuid.Parse(utils.CallerFrom(c).UserID)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID in token")
		return nil, false
	}
	user, err := ac.users.FindByID(c.Request.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return nil, false
	}
	if err != nil {
		utils.RespondInternal(c, err)
		return nil, false
	}
	return user, true
}
