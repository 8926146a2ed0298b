package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/google/uuid"
)

type TeamMemberInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

type TeamMemberUpdate struct {
	Name     *string
	Role     *string
	Password *string
	IsActive *bool
}

// ITeamService 管理非 customer 角色的後台帳號
type ITeamService interface {
	ListMembers(ctx context.Context) ([]model.User, error)
	// CreateMember 錯誤:
	//   - er.BadRequestCode 400: role 不存在於權限設定、欄位錯誤
	//   - er.ConflictCode 409: email 已存在
	CreateMember(ctx context.Context, in TeamMemberInput) (*model.User, error)
	UpdateMember(ctx context.Context, id string, update TeamMemberUpdate) (*model.User, error)
	// DeleteMember 不能刪除自己
	DeleteMember(ctx context.Context, id string) error
	Roles() []string
}

type TeamService struct {
	users       db.IUserRepository
	permissions *config.PermissionConfig
}

func NewTeamService(users db.IUserRepository, permissions *config.PermissionConfig) *TeamService {
	if util.IsNil(users) {
		panic("team service initialization failed: users repository cannot be nil")
	}
	if permissions == nil {
		panic("team service initialization failed: permission config cannot be nil")
	}
	return &TeamService{users: users, permissions: permissions}
}

func (s *TeamService) Roles() []string {
	return s.permissions.Roles()
}

func (s *TeamService) validRole(role string) error {
	if role == constants.RoleCustomer {
		return er.New(er.BadRequestCode, "team members cannot have the customer role")
	}
	if role != constants.RoleAdmin && !s.permissions.HasRole(role) {
		return er.Newf(er.BadRequestCode, "unknown role %s", role)
	}
	return nil
}

func (s *TeamService) ListMembers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListUsersExcludingRole(ctx, constants.RoleCustomer)
	if err != nil {
		return nil, repoErr(err, "user")
	}
	sortStable(users, func(a, b model.User) bool { return a.CreatedAt.Before(b.CreatedAt) })
	return users, nil
}

func (s *TeamService) getMember(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "team member")
	}
	if user.Role == constants.RoleCustomer {
		return nil, er.New(er.NotFoundCode, "team member not found")
	}
	return user, nil
}

func (s *TeamService) CreateMember(ctx context.Context, in TeamMemberInput) (*model.User, error) {
	email := normalizeEmail(in.Email)
	if !validEmail(email) {
		return nil, er.New(er.BadRequestCode, "a valid email is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, er.New(er.BadRequestCode, "name is required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, er.Newf(er.BadRequestCode, "password must be at least %d characters", MinPasswordLength)
	}
	if err := s.validRole(in.Role); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, er.New(er.InternalErrorCode, err.Error())
	}
	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hashed,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, repoErr(err, "user email")
	}
	return user, nil
}

func (s *TeamService) UpdateMember(ctx context.Context, id string, update TeamMemberUpdate) (*model.User, error) {
	user, err := s.getMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, er.New(er.BadRequestCode, "name cannot be empty")
		}
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Role != nil {
		if err := s.validRole(*update.Role); err != nil {
			return nil, err
		}
		user.Role = *update.Role
	}
	if update.Password != nil {
		if len(*update.Password) < MinPasswordLength {
			return nil, er.Newf(er.BadRequestCode, "password must be at least %d characters", MinPasswordLength)
		}
		hashed, err := HashPassword(*update.Password)
		if err != nil {
			return nil, er.New(er.InternalErrorCode, err.Error())
		}
		user.PasswordHash = hashed
	}
	if update.IsActive != nil {
		user.IsActive = *update.IsActive
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, repoErr(err, "user")
	}
	return user, nil
}

func (s *TeamService) DeleteMember(ctx context.Context, id string) error {
	if payload := util.GetTokenPayloadFromContext(ctx); payload != nil && payload.UserID == id {
		return er.New(er.BadRequestCode, "you cannot delete your own account")
	}
	if _, err := s.getMember(ctx, id); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return er.New(er.NotFoundCode, "team member not found")
		}
		return repoErr(err, "user")
	}
	return nil
}
