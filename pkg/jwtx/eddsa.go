package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// KeyPair holds an Ed25519 signing key and its identifier.
type KeyPair struct {
	KID     string
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
}

// NewKeyPair derives a keypair from a 32-byte seed, or generates a fresh
// random keypair when seed is empty. A fresh keypair invalidates all
// outstanding tokens on restart, which is fine for development.
func NewKeyPair(kid string, seed []byte) (*KeyPair, error) {
	if kid == "" {
		return nil, errors.New("jwtx: empty kid")
	}

	if len(seed) == 0 {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate key: %w", err)
		}
		return &KeyPair{KID: kid, Private: priv, Public: pub}, nil
	}

	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("jwtx: seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &KeyPair{
		KID:     kid,
		Private: priv,
		Public:  priv.Public().(ed25519.PublicKey),
	}, nil
}

// Signer returns an EdDSA signer over this keypair.
func (kp *KeyPair) Signer() Signer {
	return &eddsaSigner{kp: kp}
}

// Verifier returns an EdDSA verifier over this keypair's public key,
// enforcing the given issuer when non-empty.
func (kp *KeyPair) Verifier(issuer string) Verifier {
	return &eddsaVerifier{kid: kp.KID, pub: kp.Public, issuer: issuer}
}

type eddsaSigner struct {
	kp *KeyPair
}

func (s *eddsaSigner) Alg() string { return jwt.SigningMethodEdDSA.Alg() }

func (s *eddsaSigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kp.KID
	return t.SignedString(s.kp.Private)
}

type eddsaVerifier struct {
	kid    string
	pub    ed25519.PublicKey
	issuer string
}

func (v *eddsaVerifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid != v.kid {
			return nil, fmt.Errorf("jwtx: unknown kid %q", kid)
		}
		return v.pub, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return Claims{}, ErrNotYetValid
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		default:
			return Claims{}, fmt.Errorf("%w: %w", ErrInvalidSig, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrMalformed
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}
	return *claims, nil
}
