package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/marketplace/classifieds/internal/core/domain"
	"github.com/marketplace/classifieds/internal/core/ports"
)

func aliceSignup() ports.SignupInput {
	return ports.SignupInput{
		FirstName: "Alice",
		LastName:  "Liddell",
		Username:  "alice",
		Password:  "pw1",
		Email:     "alice@example.com",
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, NewBcryptHasher(4), "", discardLogger)

	user, err := svc.Signup(context.Background(), aliceSignup())
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if user.PasswordHash == "pw1" || user.PasswordHash == "" {
		t.Fatalf("expected password to be hashed, got %q", user.PasswordHash)
	}
	stored := repo.byID[user.ID]
	if stored.PasswordHash == "pw1" {
		t.Fatal("stored password equals plaintext")
	}
	if user.IsAdmin {
		t.Error("new users must not be admins")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreatedAt must be set")
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, fastHasher{}, "", discardLogger)

	if _, err := svc.Signup(context.Background(), aliceSignup()); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	again := aliceSignup()
	again.Password = "other"
	if _, err := svc.Signup(context.Background(), again); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(repo.byID))
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), fastHasher{}, "", discardLogger)

	cases := map[string]func(*ports.SignupInput){
		"missing username": func(in *ports.SignupInput) { in.Username = "  " },
		"missing password": func(in *ports.SignupInput) { in.Password = "" },
		"missing names":    func(in *ports.SignupInput) { in.FirstName = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := aliceSignup()
			mutate(&in)
			_, err := svc.Signup(context.Background(), in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, fastHasher{}, "", discardLogger)
	registered, _ := svc.Signup(context.Background(), aliceSignup())

	user, err := svc.Authenticate(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %s, got %s", registered.ID, user.ID)
	}

	_, err = svc.Authenticate(context.Background(), "alice", "wrong")
	if !errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatal("wrong password must wrap ErrInvalidCredentials")
	}

	_, err = svc.Authenticate(context.Background(), "ghost", "pw1")
	if !errors.Is(err, domain.ErrIncorrectUsername) {
		t.Fatalf("expected ErrIncorrectUsername, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatal("unknown username must wrap ErrInvalidCredentials")
	}
	if errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatal("unknown username must be distinguishable from a wrong password")
	}
}

func TestAuthService_Authenticate_TrimsUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, fastHasher{}, "", discardLogger)

	in := aliceSignup()
	in.Username = " alice "
	registered, err := svc.Signup(context.Background(), in)
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if registered.Username != "alice" {
		t.Fatalf("expected stored username %q, got %q", "alice", registered.Username)
	}

	for _, username := range []string{" alice ", "alice ", "alice", "\talice\n"} {
		user, err := svc.Authenticate(context.Background(), username, "pw1")
		if err != nil {
			t.Fatalf("Authenticate(%q) failed: %v", username, err)
		}
		if user.ID != registered.ID {
			t.Fatalf("Authenticate(%q): expected user %s, got %s", username, registered.ID, user.ID)
		}
	}
}

func TestAuthService_Authenticate_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection reset")
	svc := NewAuthService(repo, fastHasher{}, "", discardLogger)

	_, err := svc.Authenticate(context.Background(), "alice", "pw1")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestAuthService_GrantAdmin_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, fastHasher{}, "open-sesame", discardLogger)
	user, _ := svc.Signup(context.Background(), aliceSignup())

	updated, err := svc.GrantAdmin(context.Background(), user.ID, ports.AdminGrantInput{
		Passphrase: "open-sesame",
		FirstName:  "Alice",
		LastName:   "Admin",
		Username:   "alice",
		Password:   "newpw",
	})
	if err != nil {
		t.Fatalf("GrantAdmin failed: %v", err)
	}
	if !updated.IsAdmin {
		t.Fatal("expected IsAdmin to be set")
	}

	stored := repo.byID[user.ID]
	if !stored.IsAdmin || stored.LastName != "Admin" {
		t.Fatalf("stored user not updated: %+v", stored)
	}
	if _, err := svc.Authenticate(context.Background(), "alice", "newpw"); err != nil {
		t.Fatalf("new password must authenticate: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "alice", "pw1"); !errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatalf("old password must be rejected, got %v", err)
	}
}

func TestAuthService_GrantAdmin_WrongPassphrase(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, fastHasher{}, "open-sesame", discardLogger)
	user, _ := svc.Signup(context.Background(), aliceSignup())

	_, err := svc.GrantAdmin(context.Background(), user.ID, ports.AdminGrantInput{
		Passphrase: "guess",
		Username:   "alice",
		Password:   "newpw",
	})
	if !errors.Is(err, domain.ErrIncorrectPassphrase) {
		t.Fatalf("expected ErrIncorrectPassphrase, got %v", err)
	}
	if repo.byID[user.ID].IsAdmin {
		t.Fatal("user must not be elevated")
	}
}

func TestAuthService_GrantAdmin_DisabledWithoutPassphrase(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, fastHasher{}, "", discardLogger)
	user, _ := svc.Signup(context.Background(), aliceSignup())

	_, err := svc.GrantAdmin(context.Background(), user.ID, ports.AdminGrantInput{
		Passphrase: "",
		Username:   "alice",
		Password:   "newpw",
	})
	if !errors.Is(err, domain.ErrIncorrectPassphrase) {
		t.Fatalf("expected ErrIncorrectPassphrase, got %v", err)
	}
}

func TestAuthService_GrantAdmin_UsernameTaken(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, fastHasher{}, "open-sesame", discardLogger)
	alice, _ := svc.Signup(context.Background(), aliceSignup())
	bob := aliceSignup()
	bob.Username = "bob"
	_, _ = svc.Signup(context.Background(), bob)

	_, err := svc.GrantAdmin(context.Background(), alice.ID, ports.AdminGrantInput{
		Passphrase: "open-sesame",
		FirstName:  "Alice",
		LastName:   "L",
		Username:   "bob",
		Password:   "pw",
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_GrantAdmin_RequiresNames(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, fastHasher{}, "open-sesame", discardLogger)
	user, _ := svc.Signup(context.Background(), aliceSignup())

	cases := []ports.AdminGrantInput{
		{FirstName: "Alice", LastName: "", Username: "alice", Password: "pw"},
		{FirstName: "Alice", LastName: "   ", Username: "alice", Password: "pw"},
		{FirstName: "", LastName: "Admin", Username: "alice", Password: "pw"},
	}
	for i, in := range cases {
		in.Passphrase = "open-sesame"
		_, err := svc.GrantAdmin(context.Background(), user.ID, in)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("case %d: expected ValidationError, got %v", i, err)
		}
	}

	stored := repo.byID[user.ID]
	if stored.IsAdmin || stored.LastName != "Liddell" {
		t.Fatalf("rejected grant must leave the user untouched: %+v", stored)
	}
}

func TestAuthService_Signup_PasswordTooLong(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, NewBcryptHasher(4), "", discardLogger)

	in := aliceSignup()
	in.Password = strings.Repeat("p", MaxPasswordBytes+1)
	_, err := svc.Signup(context.Background(), in)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatal("no user must be stored")
	}
}
