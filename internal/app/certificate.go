package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pickmydegree/internal/domain"

	"github.com/form3tech-oss/jwt-go"
)

// ErrNoWinner is returned when a certificate is requested before the bracket has concluded.
var ErrNoWinner = errors.New("no winner decided yet")

const certificateDateLayout = "2006-01-02"

// Certificate is the verified content of a signed result certificate.
type Certificate struct {
	PlayerName     string    `json:"playerName"`
	WinnerID       string    `json:"winnerId"`
	WinnerCategory string    `json:"winnerCategory"`
	WinnerName     string    `json:"winnerName"`
	Date           string    `json:"date"`
	IssuedAt       time.Time `json:"issuedAt"`
}

// CertificateService signs and verifies result certificates (HS256 JWTs).
type CertificateService struct {
	secret string
	issuer string
}

func NewCertificateService(secret, issuer string) *CertificateService {
	return &CertificateService{secret: secret, issuer: issuer}
}

// Issue signs a certificate for the winner. playerName may be empty; locale selects the
// winner's display name.
func (s *CertificateService) Issue(winner domain.Degree, playerName, locale string, issuedAt time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("certificate service is nil")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("certificate config is incomplete")
	}
	if winner.ID == "" {
		return "", ErrNoWinner
	}

	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  strings.TrimSpace(playerName),
		"iat":  issuedAt.Unix(),
		"wid":  winner.ID,
		"wcat": winner.Category,
		"wnm":  winner.DisplayName(locale),
		"date": issuedAt.UTC().Format(certificateDateLayout),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// IssueFor signs a certificate for the engine's winner.
func (s *CertificateService) IssueFor(e *Engine, playerName, locale string, issuedAt time.Time) (string, error) {
	winner, ok := e.Winner()
	if !ok {
		return "", ErrNoWinner
	}
	return s.Issue(winner, playerName, locale, issuedAt)
}

// Verify checks the signature and issuer and returns the certificate content.
func (s *CertificateService) Verify(tokenString string) (Certificate, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return Certificate{}, fmt.Errorf("parse certificate: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Certificate{}, fmt.Errorf("certificate is invalid")
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return Certificate{}, fmt.Errorf("unexpected certificate issuer")
	}

	cert := Certificate{
		PlayerName:     stringClaim(claims, "sub"),
		WinnerID:       stringClaim(claims, "wid"),
		WinnerCategory: stringClaim(claims, "wcat"),
		WinnerName:     stringClaim(claims, "wnm"),
		Date:           stringClaim(claims, "date"),
	}
	if iat, ok := claims["iat"].(float64); ok {
		cert.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	if cert.WinnerID == "" {
		return Certificate{}, fmt.Errorf("certificate has no winner")
	}
	return cert, nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	v, _ := claims[name].(string)
	return v
}
