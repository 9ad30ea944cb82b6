package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"coworkly/types"
)

type principal struct {
	UserID int64
	Email  string
	Role   string
}

const principalKey = "principal"

func (s *Server) generateJWT(user principal) (string, error) {
	claims := jwt.MapClaims{
		"userID":    user.UserID,
		"userEmail": user.Email,
		"userRole":  user.Role,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Server) parseJWT(tokenString string) (*principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	userID, ok := claims["userID"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid userID claim")
	}
	email, _ := claims["userEmail"].(string)
	role, _ := claims["userRole"].(string)
	return &principal{UserID: int64(userID), Email: email, Role: role}, nil
}

func (s *Server) authRequired(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.String(http.StatusUnauthorized, "Требуется авторизация")
		c.Abort()
		return
	}
	user, err := s.parseJWT(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		c.String(http.StatusUnauthorized, "Недействительный токен")
		c.Abort()
		return
	}
	c.Set(principalKey, user)
	c.Next()
}

func (s *Server) adminRequired(c *gin.Context) {
	user := currentUser(c)
	if user == nil || user.Role != types.RoleAdmin {
		c.String(http.StatusForbidden, "Только для администраторов")
		c.Abort()
		return
	}
	c.Next()
}

func currentUser(c *gin.Context) *principal {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	user, _ := value.(*principal)
	return user
}

func (s *Server) handleRegister(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Некорректный запрос")
		return
	}
	if req.Email == "" || len(req.Password) < 6 || req.FullName == "" {
		c.String(http.StatusBadRequest, "Email, имя и пароль (от 6 символов) обязательны")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка хэширования пароля")
		return
	}

	res, err := s.conn.Exec(
		`INSERT INTO users (email, full_name, password_hash) VALUES (?, ?, ?)`,
		req.Email, req.FullName, string(hash),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.String(http.StatusConflict, "Пользователь с таким email уже существует")
			return
		}
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}
	userID, _ := res.LastInsertId()

	s.respondAuth(c, principal{UserID: userID, Email: req.Email, Role: "resident"}, req.FullName)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Некорректный запрос")
		return
	}

	var (
		user     principal
		fullName string
		hash     string
	)
	err := s.conn.QueryRow(
		`SELECT id, email, full_name, password_hash, role FROM users WHERE email = ?`, req.Email,
	).Scan(&user.UserID, &user.Email, &fullName, &hash, &user.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			c.String(http.StatusUnauthorized, "Пользователь не найден")
			return
		}
		c.String(http.StatusInternalServerError, "Ошибка базы данных")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		c.String(http.StatusUnauthorized, "Неверный пароль")
		return
	}

	s.respondAuth(c, user, fullName)
}

func (s *Server) respondAuth(c *gin.Context, user principal, fullName string) {
	token, err := s.generateJWT(user)
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка генерации токена")
		return
	}
	c.JSON(http.StatusOK, types.AuthResponse{
		Token:    token,
		UserID:   user.UserID,
		Email:    user.Email,
		FullName: fullName,
		Role:     user.Role,
	})
}

func (s *Server) handleMe(c *gin.Context) {
	user := currentUser(c)

	var profile types.UserProfile
	err := s.conn.QueryRow(
		`SELECT id, email, full_name, role, status FROM users WHERE id = ?`, user.UserID,
	).Scan(&profile.ID, &profile.Email, &profile.FullName, &profile.Role, &profile.Status)
	if err != nil {
		c.String(http.StatusUnauthorized, "Пользователь не найден")
		return
	}
	c.JSON(http.StatusOK, profile)
}
