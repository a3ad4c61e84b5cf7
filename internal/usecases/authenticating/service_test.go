package authenticating

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vfg2006/oea-pipeline/internal/config"
	"github.com/vfg2006/oea-pipeline/internal/domain"
	"github.com/vfg2006/oea-pipeline/pkg/apiErrors"
)

func newTestService(t *testing.T, now time.Time) *Service {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3nha-forte"), bcrypt.MinCost)
	require.NoError(t, err)

	return &Service{
		cfg: config.Auth{
			SecretKey:         "segredo-de-teste",
			AdminUser:         "admin",
			AdminPasswordHash: string(hash),
			TokenTTLHours:     2,
		},
		now: func() time.Time { return now },
	}
}

func TestLoginUser(t *testing.T) {
	now := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		user     string
		password string
		wantErr  error
		wantCode string
	}{
		{name: "credenciais válidas", user: " admin ", password: "s3nha-forte"},
		{name: "senha incorreta", user: "admin", password: "errada", wantErr: ErrInvalidCredentials, wantCode: apiErrors.ErrInvalidCredentials},
		{name: "usuário desconhecido", user: "root", password: "s3nha-forte", wantErr: ErrInvalidCredentials, wantCode: apiErrors.ErrInvalidCredentials},
		{name: "sem senha", user: "admin", password: "", wantErr: ErrMissingRequiredData, wantCode: apiErrors.ErrMissingRequiredData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t, now)

			token, err := s.LoginUser(tt.user, tt.password)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantCode, CodeOf(err))
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			claims, err := s.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, "admin", claims.UserName)
			assert.True(t, claims.IsAdmin())
			assert.Equal(t, now.Add(2*time.Hour).Unix(), claims.ExpiresAt.Unix())
		})
	}
}

func TestLoginUser_NotConfigured(t *testing.T) {
	s := newTestService(t, time.Now())
	s.cfg.AdminPasswordHash = ""

	_, err := s.LoginUser("admin", "s3nha-forte")
	assert.ErrorIs(t, err, ErrAuthDisabled)
	assert.False(t, IsCredentialsError(err))
}

func TestValidateToken_Expired(t *testing.T) {
	issuedAt := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, issuedAt)

	token, err := s.LoginUser("admin", "s3nha-forte")
	require.NoError(t, err)

	s.now = func() time.Time { return issuedAt.Add(3 * time.Hour) }
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.True(t, IsAuthorizationError(err))
	assert.Equal(t, apiErrors.ErrExpiredToken, CodeOf(err))
}

func TestValidateToken_Rejects(t *testing.T) {
	now := time.Now()
	s := newTestService(t, now)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, domain.Claims{
		UserName:   "admin",
		UserRoleID: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	forged, err := other.SignedString([]byte("outro-segredo"))
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "outro-sistema",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	wrongIssuer, err := foreign.SignedString([]byte("segredo-de-teste"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"assinatura inválida": forged,
		"emissor diferente":   wrongIssuer,
		"lixo":                "abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.ValidateToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, apiErrors.ErrInternalServer, CodeOf(assert.AnError))
}
