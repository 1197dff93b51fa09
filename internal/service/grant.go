package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultGrantTTL — время жизни edit-гранта: короткая сессия редактирования.
const DefaultGrantTTL = 15 * time.Minute

// grantClaims — полезная нагрузка edit-гранта: токен метки плюс срок действия.
type grantClaims struct {
	jwt.RegisteredClaims
	TagToken string `json:"tag"`
}

// GrantSigner выпускает и проверяет edit-гранты — подписанные capability,
// привязанные к одной конкретной метке. Грант заменяет амбиентный
// сессионный флаг: его можно выдать, проверить и он истекает сам.
type GrantSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewGrantSigner создаёт подписанта грантов с заданным секретом.
func NewGrantSigner(secret string, ttl time.Duration) *GrantSigner {
	if ttl <= 0 {
		ttl = DefaultGrantTTL
	}
	return &GrantSigner{secret: []byte(secret), ttl: ttl}
}

// Issue выпускает грант на редактирование метки tagToken.
func (g *GrantSigner) Issue(tagToken string) (string, error) {
	now := time.Now()
	claims := grantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
		TagToken: tagToken,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(g.secret)
}

// Check возвращает true, если grant подписан нами, не истёк
// и выпущен именно для метки tagToken.
func (g *GrantSigner) Check(grant, tagToken string) bool {
	if grant == "" {
		return false
	}
	claims := &grantClaims{}
	t, err := jwt.ParseWithClaims(grant, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil || !t.Valid {
		return false
	}
	return claims.TagToken == tagToken
}
