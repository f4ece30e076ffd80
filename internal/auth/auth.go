package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/pmarkota/dreamlog-backend/internal/errors"
	"github.com/pmarkota/dreamlog-backend/internal/models"
	"github.com/pmarkota/dreamlog-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const tokenLifetime = 7 * 24 * time.Hour

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	IsPremium bool
}

const identityKey = "identity"

// IssueToken signs an HS256 JWT carrying the user's ID, email and premium
// flag.
func IssueToken(secret string, user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.ID.String(),
		"email":      user.Email,
		"is_premium": user.IsPremium,
		"exp":        time.Now().Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// AuthMiddleware verifies the bearer token and stores the caller identity
// in the request context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.HandleError(c, errors.New401Error())
			c.Abort()
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || !strings.EqualFold(bearerToken[0], "Bearer") {
			errors.HandleError(c, errors.New401Error())
			c.Abort()
			return
		}

		identity, err := verifyToken(bearerToken[1], secret)
		if err != nil {
			errors.HandleError(c, errors.New401Error())
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequirePremium gates a route on the premium flag. The flag is re-read
// from the database so a token issued before a downgrade cannot keep
// premium access.
func RequirePremium(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentUser(c)
		if !ok {
			errors.HandleError(c, errors.New401Error())
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), identity.UserID)
		if err != nil {
			errors.HandleError(c, errors.New500Error(err))
			c.Abort()
			return
		}
		if !user.IsPremium {
			errors.HandleError(c, errors.New403Error("Premium subscription required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}

func verifyToken(tokenString, secret string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.NewValidationError("unexpected signing method", jwt.ValidationErrorSignatureInvalid)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, jwt.NewValidationError("invalid token", jwt.ValidationErrorClaimsInvalid)
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return Identity{}, jwt.NewValidationError("invalid user_id claim", jwt.ValidationErrorClaimsInvalid)
	}

	email, _ := claims["email"].(string)
	isPremium, _ := claims["is_premium"].(bool)
	return Identity{UserID: userID, Email: email, IsPremium: isPremium}, nil
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SetupRoutes registers the public auth endpoints.
func SetupRoutes(r *gin.Engine, users *services.UserService, jwtSecret string) {
	group := r.Group("/api/auth")
	{
		group.POST("/signup", signup(users, jwtSecret))
		group.POST("/login", login(users, jwtSecret))
		group.GET("/me", AuthMiddleware(jwtSecret), me(users))
	}
}

func signup(users *services.UserService, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.SignupInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errors.HandleError(c, errors.New400Error(err.Error()))
			return
		}

		user, err := users.Signup(c.Request.Context(), input)
		if err != nil {
			if err == services.ErrEmailTaken {
				errors.HandleError(c, errors.New400Error("Email is already registered"))
				return
			}
			errors.HandleError(c, errors.New500Error(err))
			return
		}

		token, err := IssueToken(jwtSecret, user)
		if err != nil {
			errors.HandleError(c, errors.New500Error(err))
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
	}
}

func login(users *services.UserService, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input loginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errors.HandleError(c, errors.New400Error(err.Error()))
			return
		}

		user, err := users.Authenticate(c.Request.Context(), input.Email, input.Password)
		if err != nil {
			if err == services.ErrInvalidCredentials {
				errors.HandleError(c, errors.New401Error())
				return
			}
			errors.HandleError(c, errors.New500Error(err))
			return
		}

		token, err := IssueToken(jwtSecret, user)
		if err != nil {
			errors.HandleError(c, errors.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

func me(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentUser(c)
		if !ok {
			errors.HandleError(c, errors.New401Error())
			return
		}

		user, err := users.GetByID(c.Request.Context(), identity.UserID)
		if err != nil {
			errors.HandleError(c, errors.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
