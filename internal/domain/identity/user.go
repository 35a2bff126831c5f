package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/hexlet/taskmanager/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Field limits for users
const (
	MinPasswordLength = 3
	MaxPasswordLength = 72 // bcrypt ignores anything longer
	MaxEmailLength    = 255
	MaxNameLength     = 255
)

// PasswordCost is the bcrypt cost used for new password hashes.
// Tests lower it to bcrypt.MinCost.
var PasswordCost = bcrypt.DefaultCost

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a registered account. Email is the login name.
type User struct {
	shared.BaseEntity
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	UpdatedAt    time.Time
}

// NewUser creates a new user with a hashed password
func NewUser(email, password, firstName, lastName string) (*User, error) {
	user := &User{
		BaseEntity: shared.NewBaseEntity(),
	}
	user.UpdatedAt = user.CreatedAt

	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := user.SetName(firstName, lastName); err != nil {
		return nil, err
	}

	return user, nil
}

// SetEmail validates and stores the email in lower case
func (u *User) SetEmail(email string) error {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	u.Email = email
	u.touch()
	return nil
}

// SetName sets first and last name
func (u *User) SetName(firstName, lastName string) error {
	if err := u.SetFirstName(firstName); err != nil {
		return err
	}
	return u.SetLastName(lastName)
}

// SetFirstName sets the first name
func (u *User) SetFirstName(firstName string) error {
	firstName = strings.TrimSpace(firstName)
	if len(firstName) > MaxNameLength {
		return shared.NewValidationError("First name cannot exceed 255 characters")
	}
	u.FirstName = firstName
	u.touch()
	return nil
}

// SetLastName sets the last name
func (u *User) SetLastName(lastName string) error {
	lastName = strings.TrimSpace(lastName)
	if len(lastName) > MaxNameLength {
		return shared.NewValidationError("Last name cannot exceed 255 characters")
	}
	u.LastName = lastName
	u.touch()
	return nil
}

// SetPassword validates and hashes a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = string(hash)
	u.touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) touch() {
	u.UpdatedAt = shared.Now()
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewValidationError("Email cannot be empty")
	}
	if len(email) > MaxEmailLength {
		return shared.NewValidationError("Email cannot exceed 255 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewValidationError("Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return shared.NewValidationError("Password must be at least 3 characters")
	}
	if len(password) > MaxPasswordLength {
		return shared.NewValidationError("Password cannot exceed 72 characters")
	}
	return nil
}
