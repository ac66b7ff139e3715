package common

import (
	"golang.org/x/crypto/bcrypt"
)

// bcrypt.DefaultCost is 10; tests lower it through SetPasswordCost
var passwordCost = bcrypt.DefaultCost

func SetPasswordCost(cost int) {
	passwordCost = cost
}

func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func CheckPassword(password, hashedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
