package service

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"laily-api/internal/apperr"
	"laily-api/internal/auth"
	"laily-api/internal/models"
)

type UserService struct {
	users  UserStore
	hasher *auth.Hasher
	log    *zap.Logger
}

func NewUserService(users UserStore, hasher *auth.Hasher, log *zap.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, log: log}
}

func (s *UserService) Create(ctx context.Context, in models.UserInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return nil, apperr.Validation("missing required fields (email, name, password)")
	}
	if err := checkEmail(email); err != nil {
		return nil, err
	}

	role := models.RoleCustomer
	if in.Role != "" {
		var err error
		if role, err = parseRole(in.Role); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal("failed to create user", err)
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Password: hash,
		Role:     role,
		Address:  strings.TrimSpace(in.Address),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, userEntity.storeError("create", err)
	}
	s.log.Info("user created", zap.String("user_id", user.ID.Hex()), zap.String("user_type", role))

	user.Password = ""
	return user, nil
}

// List devuelve todas las cuentas, de la más nueva a la más antigua
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, userEntity.storeError("list", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, userEntity.storeError("find", err)
	}
	user.Password = ""
	return user, nil
}

// Update aplica solo los campos presentes. Una dirección vacía la elimina.
func (s *UserService) Update(ctx context.Context, id string, in models.UserUpdate) (*models.User, error) {
	set := bson.M{}
	var unset []string

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, apperr.Validation("email cannot be empty")
		}
		if err := checkEmail(email); err != nil {
			return nil, err
		}
		set["email"] = email
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		set["name"] = name
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, apperr.Validation("password cannot be empty")
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, apperr.Internal("failed to update user", err)
		}
		set["password"] = hash
	}
	if in.Role != nil {
		role, err := parseRole(*in.Role)
		if err != nil {
			return nil, err
		}
		set["user_type"] = role
	}
	if in.Address != nil {
		if address := strings.TrimSpace(*in.Address); address != "" {
			set["address"] = address
		} else {
			unset = append(unset, "address")
		}
	}

	user, err := s.users.Update(ctx, id, set, unset)
	if err != nil {
		return nil, userEntity.storeError("update", err)
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (*models.UserSummary, error) {
	user, err := s.users.Delete(ctx, id)
	if err != nil {
		return nil, userEntity.storeError("delete", err)
	}
	s.log.Info("user deleted", zap.String("user_id", user.ID.Hex()))
	return &models.UserSummary{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

func parseRole(role string) (string, error) {
	switch r := strings.ToLower(strings.TrimSpace(role)); r {
	case models.RoleCustomer, models.RoleAdmin:
		return r, nil
	default:
		return "", apperr.Validation("user_type must be customer or admin")
	}
}
