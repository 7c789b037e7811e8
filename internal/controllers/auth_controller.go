package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"train_schedule/internal/database"
	"train_schedule/internal/models"
)

type signupInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// SignupUser creates an account. Anyone may sign up as a viewer; other
// roles need an admin's bearer token on the request.
func (ctl *Controller) SignupUser(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := validateAndNormalizeRole(input.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if role != models.RoleViewer && !ctl.callerIsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only an admin can create " + role + " accounts"})
		return
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    strings.ToLower(input.Email),
		Password: hashedPassword,
		Role:     role,
	}
	if err := ctl.Store.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, database.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		respondError(c, "user", err)
		return
	}

	token, err := ctl.JWT.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func (ctl *Controller) LoginUser(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ctl.Store.GetUserByEmail(c.Request.Context(), strings.ToLower(body.Email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found or invalid credentials"})
			return
		}
		respondError(c, "user", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found or invalid credentials"})
		return
	}

	token, err := ctl.JWT.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// CurrentUser returns the account behind the bearer token.
func (ctl *Controller) CurrentUser(c *gin.Context) {
	user, err := ctl.Store.GetUser(c.Request.Context(), c.GetUint("user_id"))
	if err != nil {
		respondError(c, "user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ctl *Controller) callerIsAdmin(c *gin.Context) bool {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	claims, err := ctl.JWT.ValidateToken(strings.TrimPrefix(header, "Bearer "))
	return err == nil && claims.Role == models.RoleAdmin
}

// EnsureAdmin creates the bootstrap admin account unless the email is taken.
func EnsureAdmin(ctx context.Context, store *database.Store, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	email = strings.ToLower(email)
	if _, err := store.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, database.ErrNotFound) {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	admin := models.User{Name: "admin", Email: email, Password: hash, Role: models.RoleAdmin}
	if err := store.CreateUser(ctx, &admin); err != nil {
		return err
	}
	logrus.WithField("email", email).Info("Bootstrap admin account created")
	return nil
}

func validateAndNormalizeRole(roleInput string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(roleInput))
	if role == "" {
		role = models.RoleViewer
	}
	switch role {
	case models.RoleViewer, models.RoleDispatcher, models.RoleAdmin:
		return role, nil
	default:
		return "", errors.New("invalid role")
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
