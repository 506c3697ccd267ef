package valutatrade

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is one registered account. The password is only ever stored as a
// bcrypt hash; the salt is embedded in the hash itself.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	RegisteredAt time.Time
}

// registerInput carries the validation rules for new accounts.
type registerInput struct {
	Username string `validate:"required,min=3,max=32"`
	Password string `validate:"required,min=4"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewUser creates a user with a fresh ID and a bcrypt hash of the password.
func NewUser(username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := validate.Struct(registerInput{Username: username, Password: password}); err != nil {
		return nil, fmt.Errorf("%w: username must be 3-32 characters and password at least 4", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	return &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		RegisteredAt: time.Now().UTC(),
	}, nil
}

// CheckPassword compares a plaintext password with the stored bcrypt hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Users is the collection persisted in users.json, in registration order.
type Users struct {
	list []*User
}

// NewUsers creates an empty collection.
func NewUsers(users ...*User) *Users {
	return &Users{list: users}
}

// Len returns the number of registered users.
func (u *Users) Len() int { return len(u.list) }

// All returns the users in registration order.
func (u *Users) All() []*User { return u.list }

// FindByName returns the user with that exact username.
func (u *Users) FindByName(username string) (*User, bool) {
	username = strings.TrimSpace(username)
	for _, user := range u.list {
		if user.Username == username {
			return user, true
		}
	}
	return nil, false
}

// FindByID returns the user with that ID.
func (u *Users) FindByID(id string) (*User, bool) {
	for _, user := range u.list {
		if user.ID == id {
			return user, true
		}
	}
	return nil, false
}

// Add appends a user, refusing a username that is already taken.
func (u *Users) Add(user *User) error {
	if _, ok := u.FindByName(user.Username); ok {
		return fmt.Errorf("%w: %q", ErrDuplicateUser, user.Username)
	}
	u.list = append(u.list, user)
	return nil
}
