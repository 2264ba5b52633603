package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt work factor for stored passwords.
var passwordCost = bcrypt.DefaultCost

// Route setup
func AuthRoutes(r gin.IRouter, users UserFinder, tokens *TokenIssuer) {
	r.POST("/login", func(c *gin.Context) {
		handleLogin(c, users, tokens)
	})
}

// =================== LOGIN ===================

// handleLogin answers the same 401 for an unknown username and for a wrong
// password.
func handleLogin(c *gin.Context, users UserFinder, tokens *TokenIssuer) {
	var input LoginInput
	if err := bindBody(c, &input); err != nil {
		respondError(c, err, "User")
		return
	}

	user, err := users.FindByUsername(c.Request.Context(), input.Username)
	if errors.Is(err, ErrNotFound) {
		unauthorized(c)
		return
	}
	if err != nil {
		respondError(c, err, "User")
		return
	}

	if !checkPassword(input.Password, user.Password) {
		unauthorized(c)
		return
	}

	token, err := tokens.Issue(user)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", user.UserID).Msg("Error issuing token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
}

// =================== UTILITY ===================

func checkPassword(plainPwd string, hashedPwd *string) bool {
	if hashedPwd == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*hashedPwd), []byte(plainPwd)) == nil
}

func hashPassword(plainPwd string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainPwd), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// hashUserPassword replaces a plaintext password in a user body with its hash.
func hashUserPassword(in *UserInput) error {
	if !in.Password.Set || in.Password.Null {
		return nil
	}
	hashed, err := hashPassword(in.Password.Value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	in.Password.Value = hashed
	return nil
}
