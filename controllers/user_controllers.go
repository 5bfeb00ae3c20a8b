package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/foodcourt-app/middlewares"
	"github.com/yeremiapane/foodcourt-app/models"
	"github.com/yeremiapane/foodcourt-app/utils"
)

var errInvalidCredentials = errors.New("invalid credentials")

type UserController struct {
	DB     *gorm.DB
	Tokens *utils.TokenManager
}

func NewUserController(db *gorm.DB, tokens *utils.TokenManager) *UserController {
	return &UserController{DB: db, Tokens: tokens}
}

// Login user -> return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("LOWER(email) = ?", models.NormalizeEmail(input.Email)).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondInternalError(c, err)
			return
		}
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	token, err := uc.Tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondInternalError(c, err)
		return
	}

	utils.InfoLogger.Printf("User logged in: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login success", gin.H{
		"token": token,
		"role":  user.Role,
	})
}

// Logout revokes the presented token.
func (uc *UserController) Logout(c *gin.Context) {
	token := c.GetString(middlewares.ContextToken)
	if token == "" {
		utils.RespondError(c, http.StatusUnauthorized, ErrUnauthorized)
		return
	}
	uc.Tokens.BlacklistToken(token)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile returns the session user and, for owners, their foodcourt.
func (uc *UserController) GetProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var user models.User
	if err := uc.DB.First(&user, actor.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
			return
		}
		utils.RespondInternalError(c, err)
		return
	}

	profile := gin.H{"user": user}
	if user.Role == models.RoleFoodcourtOwner {
		var fc models.Foodcourt
		err := uc.DB.Where("owner_id = ?", user.ID).Take(&fc).Error
		switch {
		case err == nil:
			profile["foodcourt"] = fc
		case !errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondInternalError(c, err)
			return
		}
	}
	utils.RespondJSON(c, http.StatusOK, "User profile", profile)
}
