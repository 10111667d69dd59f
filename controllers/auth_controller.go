package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/kakao"
	"gorm.io/gorm"

	"github.com/campstation/camp/config"
	"github.com/campstation/camp/middleware"
	"github.com/campstation/camp/models"
	"github.com/campstation/camp/utils"
)

const tokenTTL = 72 * time.Hour

// AuthController handles registration, login, and social login.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates a local (email + password) account.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8,max=72"`
		Name     string `json:"name" binding:"required,min=1,max=100"`
		Phone    string `json:"phone" binding:"omitempty,max=20"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing int64
	if err := a.db.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to create account")
		return
	}
	if existing > 0 {
		utils.Error(ctx, http.StatusConflict, 40901, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to create account")
		return
	}

	user := models.User{
		Email:    email,
		Password: hash,
		Name:     utils.Sanitize(strings.TrimSpace(req.Name)),
		Phone:    strings.TrimSpace(req.Phone),
		Role:     models.RoleUser,
		Status:   models.UserActive,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to create account")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to generate token")
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{"token": token, "user": user})
}

// Login authenticates a local account.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}

	var user models.User
	err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !utils.CheckPassword(user.Password, req.Password)) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to sign in")
		return
	}
	if user.Status != models.UserActive {
		utils.Error(ctx, http.StatusForbidden, 40302, "account suspended")
		return
	}

	now := time.Now()
	a.db.Model(&user).Update("last_login_at", now)

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to generate token")
		return
	}
	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout revokes the presented token until its natural expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenTTL)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.Take(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}
	utils.Success(ctx, user)
}

// OAuthRedirect generates a provider-specific authorization URL.
func (a *AuthController) OAuthRedirect(ctx *gin.Context) {
	provider := ctx.Param("provider")
	cfg, err := a.oauthConfig(provider)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, err.Error())
		return
	}

	state := uuid.NewString()
	utils.SaveState(state, 10*time.Minute)

	url := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	utils.Success(ctx, gin.H{"authorizationUrl": url, "state": state})
}

// OAuthCallback exchanges the authorization code for a user identity and
// issues a JWT.
func (a *AuthController) OAuthCallback(ctx *gin.Context) {
	provider := ctx.Param("provider")
	code := ctx.Query("code")
	state := ctx.Query("state")

	if code == "" || state == "" {
		utils.Error(ctx, http.StatusBadRequest, 40005, "missing code or state")
		return
	}
	if !utils.ConsumeState(state) {
		utils.Error(ctx, http.StatusBadRequest, 40006, "invalid or expired state")
		return
	}

	cfg, err := a.oauthConfig(provider)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, err.Error())
		return
	}

	token, err := cfg.Exchange(context.Background(), code)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40007, "failed to exchange code")
		return
	}

	userInfo, err := fetchOAuthUser(provider, token)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to fetch user profile")
		return
	}

	user, err := a.findOrCreateOAuthUser(provider, userInfo)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to persist user")
		return
	}

	jwtToken, err := utils.GenerateToken(user.ID, user.Email, user.Role, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to generate token")
		return
	}
	utils.Success(ctx, gin.H{"token": jwtToken, "user": user})
}

type oauthUser struct {
	ProviderID   string
	Email        string
	Name         string
	ProfileImage string
}

func (a *AuthController) oauthConfig(provider string) (*oauth2.Config, error) {
	cfg := config.Get()
	redirect := fmt.Sprintf("%s/api/v1/auth/oauth/%s/callback", cfg.OAuthRedirectBase, provider)

	switch provider {
	case "google":
		if cfg.GoogleClientID == "" {
			return nil, errors.New("google login not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  redirect,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}, nil
	case "kakao":
		if cfg.KakaoClientID == "" {
			return nil, errors.New("kakao login not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.KakaoClientID,
			ClientSecret: cfg.KakaoClientSecret,
			RedirectURL:  redirect,
			Scopes:       []string{"profile_nickname", "profile_image", "account_email"},
			Endpoint:     kakao.Endpoint,
		}, nil
	default:
		return nil, errors.New("unsupported oauth provider")
	}
}

func fetchOAuthUser(provider string, token *oauth2.Token) (*oauthUser, error) {
	switch provider {
	case "google":
		return fetchGoogleUser(token)
	case "kakao":
		return fetchKakaoUser(token)
	default:
		return nil, errors.New("unsupported oauth provider")
	}
}

func fetchGoogleUser(token *oauth2.Token) (*oauthUser, error) {
	req, _ := http.NewRequest("GET", "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned %d", resp.StatusCode)
	}

	var payload struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &oauthUser{
		ProviderID:   payload.ID,
		Email:        payload.Email,
		Name:         payload.Name,
		ProfileImage: payload.Picture,
	}, nil
}

func fetchKakaoUser(token *oauth2.Token) (*oauthUser, error) {
	req, _ := http.NewRequest("GET", "https://kapi.kakao.com/v2/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao userinfo returned %d", resp.StatusCode)
	}

	var payload struct {
		ID      int64 `json:"id"`
		Account struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname        string `json:"nickname"`
				ProfileImageURL string `json:"profile_image_url"`
			} `json:"profile"`
		} `json:"kakao_account"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &oauthUser{
		ProviderID:   strconv.FormatInt(payload.ID, 10),
		Email:        payload.Account.Email,
		Name:         payload.Account.Profile.Nickname,
		ProfileImage: payload.Account.Profile.ProfileImageURL,
	}, nil
}

func (a *AuthController) findOrCreateOAuthUser(provider string, info *oauthUser) (*models.User, error) {
	var user models.User
	err := a.db.Where("provider = ? AND provider_id = ?", provider, info.ProviderID).Take(&user).Error
	if err == nil {
		now := time.Now()
		a.db.Model(&user).Update("last_login_at", now)
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Kakao accounts may withhold the email; synthesize a stable one so the
	// unique index holds.
	email := strings.ToLower(strings.TrimSpace(info.Email))
	if email == "" {
		email = fmt.Sprintf("%s_%s@oauth.campstation.local", provider, info.ProviderID)
	}
	name := strings.TrimSpace(info.Name)
	if name == "" {
		name = provider + " user"
	}

	user = models.User{
		Email:        email,
		Name:         utils.Sanitize(name),
		Role:         models.RoleUser,
		Status:       models.UserActive,
		Provider:     provider,
		ProviderID:   info.ProviderID,
		ProfileImage: info.ProfileImage,
	}
	if err := a.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
