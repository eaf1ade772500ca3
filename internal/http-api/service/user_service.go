package service

import (
	"reviewhub/internal/access"
	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

type UserService interface {
	Create(actor *access.Actor, in dto.CreateUserDTO) (*dto.UserResponse, error)
	List(actor *access.Actor, search string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error)
	Get(actor *access.Actor, username string) (*dto.UserResponse, error)
	Update(actor *access.Actor, username string, in dto.UpdateUserDTO) (*dto.UserResponse, error)
	Delete(actor *access.Actor, username string) error
	GetSelf(actor *access.Actor) (*dto.UserResponse, error)
	UpdateSelf(actor *access.Actor, in dto.UpdateUserDTO) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Create(actor *access.Actor, in dto.CreateUserDTO) (*dto.UserResponse, error) {
	if !access.CanManageUsers(actor) {
		return nil, apperr.Permission("admin access required")
	}
	if err := validateSignup(in.Username, in.Email); err != nil {
		return nil, err
	}

	role := models.RoleUser
	if in.Role != "" {
		role = models.Role(in.Role)
		if !role.Valid() {
			return nil, apperr.Validationf("unknown role %q", in.Role)
		}
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Role:      role,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
	}
	if err := s.userRepo.Create(user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperr.Conflict("username or email already taken")
		}
		return nil, apperr.Internal(err)
	}

	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) List(actor *access.Actor, search string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error) {
	if !access.CanManageUsers(actor) {
		return nil, apperr.Permission("admin access required")
	}

	users, total, err := s.userRepo.List(search, page, pageSize)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *userService) Get(actor *access.Actor, username string) (*dto.UserResponse, error) {
	if !access.CanManageUsers(actor) {
		return nil, apperr.Permission("admin access required")
	}
	user, err := s.findByUsername(username)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Update(actor *access.Actor, username string, in dto.UpdateUserDTO) (*dto.UserResponse, error) {
	if !access.CanManageUsers(actor) {
		return nil, apperr.Permission("admin access required")
	}
	user, err := s.findByUsername(username)
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(user, in, true)
}

func (s *userService) Delete(actor *access.Actor, username string) error {
	if !access.CanManageUsers(actor) {
		return apperr.Permission("admin access required")
	}
	if err := s.userRepo.Delete(username); err != nil {
		if repository.IsNotFound(err) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *userService) GetSelf(actor *access.Actor) (*dto.UserResponse, error) {
	if !actor.Authenticated() {
		return nil, apperr.Permission("authentication required")
	}
	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}
	return dto.FromModelToUserResponse(user), nil
}

// UpdateSelf lets any authenticated actor patch their own record. The role
// field is always forced back to the stored role: self-service can never
// promote.
func (s *userService) UpdateSelf(actor *access.Actor, in dto.UpdateUserDTO) (*dto.UserResponse, error) {
	if !actor.Authenticated() {
		return nil, apperr.Permission("authentication required")
	}
	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}
	return s.applyUpdate(user, in, false)
}

func (s *userService) applyUpdate(user *models.User, in dto.UpdateUserDTO, allowRole bool) (*dto.UserResponse, error) {
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Role != nil && allowRole {
		role := models.Role(*in.Role)
		if !role.Valid() {
			return nil, apperr.Validationf("unknown role %q", *in.Role)
		}
		user.Role = role
	}

	if err := s.userRepo.Save(user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperr.Conflict("email already in use")
		}
		return nil, apperr.Internal(err)
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) findByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}
