package service

import (
	"context"
	"testing"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/config"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/dto"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthEnv(t *testing.T) (*stubUsuarios, AuthService, *model.Usuario) {
	t.Helper()
	repo := newStubUsuarios()
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 8, JWTRefreshHours: 720}
	svc := NewAuthService(repo, cfg)

	hash, err := bcrypt.GenerateFromPassword([]byte("pos2026"), bcrypt.MinCost)
	require.NoError(t, err)
	email := "cajero@pos.local"
	user := &model.Usuario{
		ID: uuid.New(), Username: "cajero1", Nombre: "Caja Uno",
		Email: &email, PasswordHash: string(hash), Rol: "cajero", Activo: true,
	}
	repo.usuarios[user.ID] = user
	return repo, svc, user
}

func TestLoginExitoso(t *testing.T) {
	_, svc, user := newAuthEnv(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "pos2026"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, user.ID.String(), resp.User.ID)
	assert.Equal(t, "cajero", resp.User.Rol)

	// El token lleva los claims que consume el middleware
	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, "cajero1", claims["username"])
	assert.Equal(t, "cajero", claims["rol"])
}

func TestLoginPorEmail(t *testing.T) {
	_, svc, _ := newAuthEnv(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "CAJERO@pos.local", Password: "pos2026"})
	require.NoError(t, err)
	assert.Equal(t, "cajero1", resp.User.Username)
}

func TestLoginPasswordIncorrecta(t *testing.T) {
	_, svc, _ := newAuthEnv(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "otra"})
	assert.EqualError(t, err, "credenciales invalidas")
}

func TestLoginUsuarioInactivo(t *testing.T) {
	repo, svc, user := newAuthEnv(t)
	repo.usuarios[user.ID].Activo = false

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "pos2026"})
	assert.EqualError(t, err, "credenciales invalidas")
}

func TestRefreshExitoso(t *testing.T) {
	_, svc, _ := newAuthEnv(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "pos2026"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "cajero1", resp.User.Username)
}

func TestRefreshTokenInvalido(t *testing.T) {
	_, svc, _ := newAuthEnv(t)

	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.Error(t, err)
}

func TestRefreshUsuarioDesactivado(t *testing.T) {
	repo, svc, user := newAuthEnv(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "pos2026"})
	require.NoError(t, err)

	// Desactivado entre el login y el refresh: el refresh deja de servir
	repo.usuarios[user.ID].Activo = false
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.Error(t, err)
}

func TestCrearUsuario(t *testing.T) {
	_, svc, _ := newAuthEnv(t)

	resp, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "super1", Nombre: "Supervisora", Password: "clave", Rol: "supervisor",
	})
	require.NoError(t, err)
	assert.Equal(t, "super1", resp.Username)
	assert.True(t, resp.Activo)

	// Puede loguearse con la clave recién asignada
	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "super1", Password: "clave"})
	require.NoError(t, err)
	assert.Equal(t, "supervisor", login.User.Rol)
}

func TestCrearUsuarioDuplicado(t *testing.T) {
	_, svc, _ := newAuthEnv(t)

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "cajero1", Nombre: "Otro", Password: "clave", Rol: "cajero",
	})
	assert.Error(t, err)
}

func TestActualizarUsuarioCambiaPassword(t *testing.T) {
	_, svc, user := newAuthEnv(t)

	_, err := svc.ActualizarUsuario(context.Background(), user.ID, dto.ActualizarUsuarioRequest{Password: "nueva"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "pos2026"})
	assert.Error(t, err)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "nueva"})
	assert.NoError(t, err)
}

func TestDesactivarYReactivarUsuario(t *testing.T) {
	_, svc, user := newAuthEnv(t)

	require.NoError(t, svc.DesactivarUsuario(context.Background(), user.ID))
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "pos2026"})
	assert.Error(t, err)

	require.NoError(t, svc.ReactivarUsuario(context.Background(), user.ID))
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "pos2026"})
	assert.NoError(t, err)
}

func TestListarUsuarios(t *testing.T) {
	repo, svc, user := newAuthEnv(t)
	repo.usuarios[user.ID].Activo = false

	activos, err := svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, activos)

	todos, err := svc.ListarUsuarios(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, todos, 1)
}
