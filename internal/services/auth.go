package services

import (
  "context"
  "fmt"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "golang.org/x/crypto/bcrypt"
  "gorm.io/gorm"

  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/normalization"
  "github.com/unionhall/sirius-backend/internal/repos"
  "github.com/unionhall/sirius-backend/internal/requestdata"
  "github.com/unionhall/sirius-backend/internal/types"
)

type AuthService interface {
  RegisterUser(ctx context.Context, user *types.User) error
  LoginUser(ctx context.Context, email, password string) (string, error)
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
  GetAccessTTL() time.Duration
}

type authService struct {
  db           *gorm.DB
  log          *logger.Logger
  userRepo     repos.UserRepo
  jwtSecretKey string
  accessTTL    time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  jwtSecretKey string,
  accessTTL time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:           db,
    log:          serviceLog,
    userRepo:     userRepo,
    jwtSecretKey: jwtSecretKey,
    accessTTL:    accessTTL,
  }
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
  user.Email = normalization.ParseInputString(user.Email)
  if user.Email == "" || user.Password == "" {
    return fmt.Errorf("%w: email and password are required", repos.ErrPrecondition)
  }
  exists, err := as.userRepo.EmailExists(ctx, nil, user.Email)
  if err != nil {
    return fmt.Errorf("check email: %w", err)
  }
  if exists {
    return fmt.Errorf("%w: email already registered", repos.ErrConflict)
  }
  hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
  if err != nil {
    return fmt.Errorf("hash password: %w", err)
  }
  user.Password = string(hashed)
  if _, err := as.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
    return fmt.Errorf("create user: %w", err)
  }
  return nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, error) {
  email = normalization.ParseInputString(email)
  user, err := as.userRepo.GetByEmail(ctx, nil, email)
  if err != nil {
    return "", fmt.Errorf("invalid credentials")
  }
  if user == nil {
    return "", fmt.Errorf("invalid credentials")
  }
  if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
    return "", fmt.Errorf("invalid credentials")
  }
  return as.generateAccessToken(user)
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  now := time.Now()
  claims := jwt.MapClaims{
    "sub": user.ID.String(),
    "iat": now.Unix(),
    "exp": now.Add(as.accessTTL).Unix(),
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  signed, err := token.SignedString([]byte(as.jwtSecretKey))
  if err != nil {
    return "", fmt.Errorf("sign token: %w", err)
  }
  return signed, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
    }
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil || !token.Valid {
    return ctx, fmt.Errorf("invalid token")
  }
  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok {
    return ctx, fmt.Errorf("invalid token claims")
  }
  sub, _ := claims["sub"].(string)
  userID, err := uuid.Parse(sub)
  if err != nil {
    return ctx, fmt.Errorf("invalid token subject")
  }
  rd := &requestdata.RequestData{TokenString: tokenString, UserID: userID}
  return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}
