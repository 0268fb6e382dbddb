package services

import (
	"database/sql"
	"errors"
	"fmt"

	"bawabati-api/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewUserService(db *sql.DB, logger zerolog.Logger) *UserService {
	return &UserService{
		db:     db,
		logger: logger,
	}
}

func (s *UserService) Register(req *models.RegisterRequest) (*models.User, error) {
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return nil, errors.New("full name, email, and password are required")
	}

	// Self-service signup may pick a storefront role; admin accounts are
	// provisioned out of band.
	if !models.ValidRole(req.Role) || req.Role == string(models.RoleAdmin) {
		req.Role = string(models.RoleCustomer)
	}

	var existingID int
	err := s.db.QueryRow("SELECT id FROM users WHERE email = $1", req.Email).Scan(&existingID)
	if err == nil {
		return nil, errors.New("user with this email already exists")
	} else if err != sql.ErrNoRows {
		s.logger.Error().Err(err).Msg("Error checking existing user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var userID int
	err = s.db.QueryRow(
		"INSERT INTO users (full_name, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id",
		req.FullName, req.Email, string(hashedPassword), req.Role,
	).Scan(&userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("user_id", user.ID).Str("email", user.Email).Str("role", user.Role).Msg("User registered successfully")
	return user, nil
}

func (s *UserService) Authenticate(req *models.LoginRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	var user models.User
	var passwordHash string

	err := s.db.QueryRow(
		"SELECT id, full_name, email, password_hash, role, created_at, updated_at FROM users WHERE email = $1",
		req.Email,
	).Scan(&user.ID, &user.FullName, &user.Email, &passwordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.New("invalid email or password")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching user for authentication")
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	return &user, nil
}

func (s *UserService) GetUserByID(userID int) (*models.User, error) {
	var user models.User

	err := s.db.QueryRow(
		"SELECT id, full_name, email, role, created_at, updated_at FROM users WHERE id = $1",
		userID,
	).Scan(&user.ID, &user.FullName, &user.Email, &user.Role, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.New("user not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &user, nil
}

// ResolveRole looks up the profile row for an identity and returns its role.
// The stored role is authoritative; a row with an unrecognized role is
// reported as an error so route guards fail closed.
func (s *UserService) ResolveRole(userID int) (string, error) {
	var role string

	err := s.db.QueryRow("SELECT role FROM users WHERE id = $1", userID).Scan(&role)
	if err == sql.ErrNoRows {
		return "", errors.New("profile not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error resolving role")
		return "", fmt.Errorf("database error: %w", err)
	}

	if !models.ValidRole(role) {
		return "", fmt.Errorf("unrecognized role %q", role)
	}

	return role, nil
}

// UpdateRole changes a user's role. Only administrators may call this; the
// handler enforces that.
func (s *UserService) UpdateRole(userID int, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	result, err := s.db.Exec("UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2", role, userID)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error updating role")
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return nil, errors.New("user not found")
	}

	s.logger.Info().Int("user_id", userID).Str("role", role).Msg("User role updated")
	return s.GetUserByID(userID)
}

func (s *UserService) GetUsers(limit, offset int) ([]*models.User, error) {
	rows, err := s.db.Query(
		"SELECT id, full_name, email, role, created_at, updated_at FROM users ORDER BY id LIMIT $1 OFFSET $2",
		limit, offset,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching users")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.FullName, &user.Email, &user.Role, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}
