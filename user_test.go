package valutatrade

import (
	"errors"
	"testing"
)

func TestNewUser(t *testing.T) {
	testCases := []struct {
		name      string
		username  string
		password  string
		expectErr bool
	}{
		{"Valid", "alice", "pw1234", false},
		{"Minimal lengths", "bob", "1234", false},
		{"Username trimmed", "  carol  ", "secret", false},
		{"Username too short", "al", "pw1234", true},
		{"Username too long", "a-very-long-username-over-32-characters", "pw1234", true},
		{"Password too short", "alice", "123", true},
		{"Empty username", "", "pw1234", true},
		{"Empty password", "alice", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := NewUser(tc.username, tc.password)
			if (err != nil) != tc.expectErr {
				t.Fatalf("NewUser(%q) error = %v, want error: %v", tc.username, err, tc.expectErr)
			}
			if tc.expectErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("NewUser(%q) error = %v, want ErrValidation", tc.username, err)
				}
				return
			}
			if user.ID == "" {
				t.Error("NewUser() left ID empty")
			}
			if user.PasswordHash == tc.password || user.PasswordHash == "" {
				t.Error("NewUser() must store a hash, not the password")
			}
			if user.RegisteredAt.IsZero() {
				t.Error("NewUser() left RegisteredAt zero")
			}
		})
	}
}

func TestUser_CheckPassword(t *testing.T) {
	user, err := NewUser("alice", "pw1234")
	if err != nil {
		t.Fatalf("NewUser() error = %v", err)
	}

	if !user.CheckPassword("pw1234") {
		t.Error("CheckPassword(correct) = false, want true")
	}
	if user.CheckPassword("wrong") {
		t.Error("CheckPassword(wrong) = true, want false")
	}
	if user.CheckPassword("") {
		t.Error("CheckPassword(empty) = true, want false")
	}
}

func TestUsers_Add(t *testing.T) {
	users := NewUsers()

	alice, _ := NewUser("alice", "pw1234")
	if err := users.Add(alice); err != nil {
		t.Fatalf("Add(alice) error = %v", err)
	}

	again, _ := NewUser("alice", "other-password")
	if err := users.Add(again); !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("Add(duplicate) error = %v, want ErrDuplicateUser", err)
	}
	if users.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after rejected duplicate", users.Len())
	}
}

func TestUsers_Find(t *testing.T) {
	alice, _ := NewUser("alice", "pw1234")
	bob, _ := NewUser("bob", "pw1234")
	users := NewUsers(alice, bob)

	if got, ok := users.FindByName("alice"); !ok || got != alice {
		t.Errorf("FindByName(alice) = %v, %v, want alice, true", got, ok)
	}
	if got, ok := users.FindByName("  bob  "); !ok || got != bob {
		t.Errorf("FindByName(padded) = %v, %v, want bob, true", got, ok)
	}
	if _, ok := users.FindByName("carol"); ok {
		t.Error("FindByName(carol) = true, want false")
	}
	if got, ok := users.FindByID(bob.ID); !ok || got != bob {
		t.Errorf("FindByID(%q) = %v, %v, want bob, true", bob.ID, got, ok)
	}
	if _, ok := users.FindByID("no-such-id"); ok {
		t.Error("FindByID(no-such-id) = true, want false")
	}
}
