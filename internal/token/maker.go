package token

import (
	"fmt"
	"time"
)

type Maker interface {
	CreateToken(upn, userID, role string, duration time.Duration) (string, *Payload, error)
	VerifyToken(token string) (*Payload, error)
}

const (
	TypeJWT    = "jwt"
	TypePaseto = "paseto"
)

// NewMaker 依設定建立 token maker
func NewMaker(tokenType, secret string) (Maker, error) {
	switch tokenType {
	case TypeJWT, "":
		return NewJWTMaker(secret)
	case TypePaseto:
		return NewPasetoMaker(secret)
	default:
		return nil, fmt.Errorf("unsupported token type: %s", tokenType)
	}
}
