package service

import (
	"context"
	"fmt"
	"time"

	"pactumsuite/internal/config"
	"pactumsuite/internal/dto"
	"pactumsuite/internal/model"
	"pactumsuite/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Token kinds carried in the "tipo" claim. The middleware only accepts access
// tokens; Refresh only accepts refresh tokens.
const (
	TokenAcceso  = "access"
	TokenRefresh = "refresh"
)

const bcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	// EliminarUsuario refuses users who signed invoices or recorded stock-outs;
	// deactivate those instead.
	EliminarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByNombreUsuario(ctx, req.NombreUsuario)
	if err != nil {
		return nil, ErrCredencialesInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Contrasenna)); err != nil {
		return nil, ErrCredencialesInvalidas
	}
	return s.emitirTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalido
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["tipo"] != TokenRefresh {
		return nil, ErrTokenInvalido
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrTokenInvalido
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, fmt.Errorf("%w: usuario no encontrado o inactivo", ErrTokenInvalido)
	}
	return s.emitirTokens(user)
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Contrasenna), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Nombre:          req.Nombre,
		NombreUsuario:   req.NombreUsuario,
		CarnetIdentidad: req.CarnetIdentidad,
		Cargo:           req.Cargo,
		PasswordHash:    string(hash),
		Rol:             req.Rol,
		Activo:          true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, ErrNoEncontrado, "usuario "+id.String())
	}
	if req.Nombre != nil {
		user.Nombre = *req.Nombre
	}
	if req.NombreUsuario != nil {
		user.NombreUsuario = *req.NombreUsuario
	}
	if req.CarnetIdentidad != nil {
		user.CarnetIdentidad = *req.CarnetIdentidad
	}
	if req.Cargo != nil {
		user.Cargo = *req.Cargo
	}
	if req.Rol != nil {
		user.Rol = *req.Rol
	}
	if req.Activo != nil {
		user.Activo = *req.Activo
	}
	if req.Contrasenna != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Contrasenna), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Str("usuario_id", id.String()).Str("rol", user.Rol).Bool("activo", user.Activo).Msg("usuario actualizado")
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) EliminarUsuario(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return noEncontrado(err, ErrNoEncontrado, "usuario "+id.String())
	}
	n, err := s.repo.ContarReferencias(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el usuario firma %d documentos; desactivelo en su lugar", ErrEnUso, n)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("usuario_id", id.String()).Msg("usuario eliminado")
	return nil
}

func (s *authService) emitirTokens(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, TokenAcceso, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, TokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Usuario:      usuarioToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, tipo string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":        user.ID.String(),
		"nombre_usuario": user.NombreUsuario,
		"rol":            user.Rol,
		"tipo":           tipo,
		"exp":            now.Add(duration).Unix(),
		"iat":            now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:              u.ID.String(),
		Nombre:          u.Nombre,
		NombreUsuario:   u.NombreUsuario,
		CarnetIdentidad: u.CarnetIdentidad,
		Cargo:           u.Cargo,
		Rol:             u.Rol,
		Activo:          u.Activo,
	}
}
