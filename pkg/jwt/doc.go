// Package jwt signs and validates RS256 access tokens.
//
// Tokens are signed with an RSA private key loaded from PEM. A service
// configured with only the public key can validate tokens but not sign them.
//
//	svc, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "./keys/private.pem",
//	    Issuer:         "ideahub",
//	    ExpirationMins: 15,
//	})
//
//	token, err := svc.Sign(jwt.Claims{
//	    Email:            user.Email,
//	    RegisteredClaims: jwtlib.RegisteredClaims{Subject: user.ID},
//	})
//
//	claims, err := svc.Validate(token)
//	if errors.Is(err, jwt.ErrTokenExpired) {
//	    // ask the client to refresh
//	}
//	userID := claims.UserID()
//
// Refresh tokens are opaque random strings managed by the service layer,
// not JWTs.
package jwt
