package auth

import (
	"errors"
	"time"

	"github.com/goevery/messenger/internal/ierr"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "messenger"

type Authenticator struct {
	secret    []byte
	tokenTtl  time.Duration
	jwtParser *jwt.Parser
}

func NewAuthenticator(secret string, tokenTtl time.Duration) *Authenticator {
	jwtParser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30*time.Second),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(issuer),
	)

	return &Authenticator{
		secret:    []byte(secret),
		tokenTtl:  tokenTtl,
		jwtParser: jwtParser,
	}
}

// IssueToken signs a session token whose subject is the username.
func (a *Authenticator) IssueToken(username string) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTtl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(a.secret)
}

// Authenticate validates a bearer token and returns the username it was
// issued for.
func (a *Authenticator) Authenticate(tokenString string) (string, error) {
	claims := jwt.RegisteredClaims{}

	_, err := a.jwtParser.ParseWithClaims(tokenString, &claims, a.keyFunc)
	if err != nil {
		return "", ierr.New(ierr.ErrorCodeUnauthenticated, err)
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", ierr.New(ierr.ErrorCodeUnauthenticated, errors.New("invalid subject claim"))
	}

	return subject, nil
}

func (a *Authenticator) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ierr.New(ierr.ErrorCodeUnauthenticated, errors.New("unexpected signing method"))
	}

	return a.secret, nil
}
