package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/johnmaronga/bookflow/internal/auth"
)

type AuthController struct {
	service *auth.Service
}

func NewAuthController(service *auth.Service) *AuthController {
	return &AuthController{service: service}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (controller *AuthController) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID, err := controller.service.SignUp(req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAccountExists):
			c.IndentedJSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, auth.ErrEmailRequired),
			errors.Is(err, auth.ErrPasswordRequired),
			errors.Is(err, auth.ErrEmailInvalid):
			c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.IndentedJSON(http.StatusCreated, gin.H{"user_id": userID})
}

func (controller *AuthController) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID, err := controller.service.SignIn(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNoAccount), errors.Is(err, auth.ErrIncorrectPassword):
			c.IndentedJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"user_id": userID})
}

func (controller *AuthController) SignOut(c *gin.Context) {
	if err := controller.service.SignOut(); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"message": "signed out"})
}

func (controller *AuthController) CurrentUser(c *gin.Context) {
	user, err := controller.service.CurrentUser()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.IndentedJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}

	c.IndentedJSON(http.StatusOK, user)
}
