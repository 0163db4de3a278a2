package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/account"
	testutil "github.com/trezcool/shule/tests"
)

func Test_authApi_login(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateAccount(t, acctRepo, "superadmin@test.cd", account.RoleSuperAdmin, "password123", nil, nil)

	invalidCreds := marchallObj(t, apiErr{Message: "Invalid credentials"})

	tests := []httpTest{
		{
			name: "unknown email", body: marchallObj(t, LoginRequest{Email: "lol@test.cd", Password: "password123"}),
			wantCode: http.StatusUnauthorized, wantData: invalidCreds,
		},
		{
			name: "wrong password", body: marchallObj(t, LoginRequest{Email: admin.Email, Password: "lol"}),
			wantCode: http.StatusUnauthorized, wantData: invalidCreds,
		},
		{
			name: "email is case-insensitive", body: []byte(`{"email": "SuperAdmin@Test.CD", "password": "password123"}`),
			wantCode: http.StatusOK,
		},
		{
			name: "success", body: marchallObj(t, LoginRequest{Email: admin.Email, Password: "password123"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/auth/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode != http.StatusOK {
				checkCodeAndData(t, tt, rec)
				return
			}

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var resp LoginResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Token)
			assert.Equal(t, account.RoleSuperAdmin.String(), resp.Role)
		})
	}
}

func Test_authApi_login_validation(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodPost, "/api/auth/login", []byte(`{"email": "nope"}`))
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	var resp apiErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	flds := make([]string, 0, len(resp.Details))
	for _, d := range resp.Details {
		flds = append(flds, d.Field)
	}
	assert.ElementsMatch(t, []string{"email", "password"}, flds)
}

func Test_authApi_refreshToken(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateAccount(t, acctRepo, "superadmin@test.cd", account.RoleSuperAdmin, "password123", nil, nil)
	ghost := testutil.CreateAccount(t, acctRepo, "ghost@test.cd", account.RoleSuperAdmin, "password123", nil, nil)
	ghostToken := getToken(t, ghost)
	require.NoError(t, acctRepo.DeleteAccountByID(ctxb(), ghost.ID))

	// refresh window exhausted
	staleIat := time.Now().Add(-core.Conf.GetDuration("jwtRefreshExpirationDelta") - time.Hour).Unix()
	staleToken, err := GenerateToken(GetAccountClaims(admin, staleIat))
	require.NoError(t, err)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "vanished account", token: ghostToken, wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "refresh expired", token: staleToken, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, apiErr{Message: "Refresh has expired"}),
		},
		{name: "success", token: getToken(t, admin), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/auth/token-refresh", tt.token)
			app.ServeHTTP(rec, req)

			if tt.wantCode != http.StatusOK {
				checkCodeAndData(t, tt, rec)
				return
			}

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var resp LoginResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Token)
		})
	}
}
