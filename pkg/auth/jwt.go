package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultExpiration applies when JWTConfig.Expiration is zero.
const DefaultExpiration = time.Hour

// JWTConfig holds JWT configuration. Exactly one kind of key material is
// used: PrivateKeyPEM (sign and verify RS256), PublicKeyPEM (verify RS256
// only) or Secret (HS256), checked in that order.
type JWTConfig struct {
	Secret        string
	PrivateKeyPEM string
	PublicKeyPEM  string

	Issuer     string
	Expiration time.Duration
	// Leeway tolerates clock skew on exp and nbf.
	Leeway time.Duration
}

// ErrInvalidToken wraps every token rejection.
var ErrInvalidToken = errors.New("invalid token")

// ErrCannotSign is returned by GenerateToken on a verify-only service.
var ErrCannotSign = errors.New("no signing key configured")

// JWTService issues and validates bearer tokens.
type JWTService struct {
	config    JWTConfig
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	parser    *jwt.Parser
}

// NewJWTService creates a JWTService from whichever key material cfg carries.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	svc := &JWTService{config: cfg}

	switch {
	case cfg.PrivateKeyPEM != "":
		key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("auth: parse RSA private key: %w", err)
		}
		svc.method, svc.signKey, svc.verifyKey = jwt.SigningMethodRS256, key, &key.PublicKey
	case cfg.PublicKeyPEM != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("auth: parse RSA public key: %w", err)
		}
		svc.method, svc.verifyKey = jwt.SigningMethodRS256, key
	case cfg.Secret != "":
		secret := []byte(cfg.Secret)
		svc.method, svc.signKey, svc.verifyKey = jwt.SigningMethodHS256, secret, secret
	default:
		return nil, errors.New("auth: jwt configuration requires a private key, public key or secret")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{svc.method.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	svc.parser = jwt.NewParser(opts...)
	return svc, nil
}

// CanSign reports whether GenerateToken can succeed.
func (s *JWTService) CanSign() bool {
	return s.signKey != nil
}

// GenerateToken signs a token for subject carrying roles.
func (s *JWTService) GenerateToken(subject string, roles []string) (string, error) {
	if subject == "" {
		return "", errors.New("auth: subject is required")
	}
	if !s.CanSign() {
		return "", ErrCannotSign
	}

	ttl := s.config.Expiration
	if ttl == 0 {
		ttl = DefaultExpiration
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Roles: roles,
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a token and checks its signature, algorithm, expiry
// and issuer. Every failure wraps ErrInvalidToken.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.verifyKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}

// NewJWTServiceFromFiles builds a validator from a public key file, falling
// back to the shared secret when no path is given.
func NewJWTServiceFromFiles(publicKeyPath, secret, issuer string) (*JWTService, error) {
	cfg := JWTConfig{Secret: secret, Issuer: issuer}
	if publicKeyPath != "" {
		data, err := LoadKeyFromFile(publicKeyPath)
		if err != nil {
			return nil, err
		}
		cfg.PublicKeyPEM = string(data)
	}
	return NewJWTService(cfg)
}

// LoadKeyFromFile reads a PEM-encoded key.
func LoadKeyFromFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("auth: read key file %q: %w", path, err)
	}
	if block, _ := pem.Decode(data); block == nil {
		return nil, fmt.Errorf("auth: %q holds no PEM block", path)
	}
	return data, nil
}

// GenerateKeyPair returns a fresh 2048-bit RSA key pair as PKCS#1 private
// and PKIX public PEM.
func GenerateKeyPair() (privateKeyPEM, publicKeyPEM []byte, err error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("auth: generate RSA key: %w", err)
	}
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("auth: marshal public key: %w", err)
	}

	privateKeyPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	publicKeyPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pub})
	return privateKeyPEM, publicKeyPEM, nil
}
