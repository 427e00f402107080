package app

import (
	"context"
	"strings"

	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/store"
)

// Messages shown after a successful sign-in.
const (
	MsgRegistered = "Registered successfully."
	MsgLoggedIn   = "Login success."
)

// AuthError is a rejected sign-in. Message is shown to the user as is.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

var (
	errUsernameRequired = &AuthError{Message: "Username is required."}
	errShortPassword    = &AuthError{Message: "Password must be at least 4 characters."}
	errUserExists       = &AuthError{Message: "User already exists. Please login."}
	errUserNotFound     = &AuthError{Message: "User not found. Please register."}
	errWrongPassword    = &AuthError{Message: "Wrong password."}
)

// Credentials are the last username and password that signed in.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Users is the account directory and the signed-in session pointer.
// Passwords are kept in cleartext.
type Users struct {
	Deps
}

func (s *Users) all() []record.User {
	return store.Load(s.Store, store.Users, []record.User{})
}

func findUser(users []record.User, username string) (record.User, bool) {
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return record.User{}, false
}

// Register creates an account and signs it in. The full name defaults to
// the username.
func (s *Users) Register(ctx context.Context, username, password, fullName string) (record.User, error) {
	if err := s.ready(); err != nil {
		return record.User{}, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return record.User{}, errUsernameRequired
	}
	if len(password) < 4 {
		return record.User{}, errShortPassword
	}
	defer s.lock()()
	users := s.all()
	if _, exists := findUser(users, username); exists {
		return record.User{}, errUserExists
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fullName = username
	}
	u := record.User{
		ID:        s.newID(),
		Username:  username,
		FullName:  fullName,
		Password:  password,
		CreatedAt: s.millis(),
	}
	if err := s.Store.Put(store.Users, append([]record.User{u}, users...)); err != nil {
		return record.User{}, err
	}
	return u, s.signIn(u, password)
}

// Login signs in an existing account.
func (s *Users) Login(ctx context.Context, username, password string) (record.User, error) {
	if err := s.ready(); err != nil {
		return record.User{}, err
	}
	defer s.lock()()
	u, ok := findUser(s.all(), strings.TrimSpace(username))
	if !ok {
		return record.User{}, errUserNotFound
	}
	if u.Password != password {
		return record.User{}, errWrongPassword
	}
	return u, s.signIn(u, password)
}

func (s *Users) signIn(u record.User, password string) error {
	sess := record.Session{UserID: u.ID, Username: u.Username, LoggedInAt: s.millis()}
	if err := s.Store.Put(store.CurrentSession, sess); err != nil {
		return err
	}
	return s.Store.Put(store.LastCredentials, Credentials{Username: u.Username, Password: password})
}

// Logout clears the session pointer.
func (s *Users) Logout(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.Store.Delete(store.CurrentSession)
}

// Current resolves the signed-in user by id, then by username. A session
// naming an unknown user still yields a user carrying that name. Nil means
// nobody is signed in.
func (s *Users) Current(ctx context.Context) (*record.User, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var sess record.Session
	if !s.Store.Decode(store.CurrentSession, &sess) {
		return nil, nil
	}
	users := s.all()
	if sess.UserID != "" {
		for _, u := range users {
			if u.ID == sess.UserID {
				return &u, nil
			}
		}
	}
	if u, ok := findUser(users, sess.Username); ok && sess.Username != "" {
		return &u, nil
	}
	name := strings.TrimSpace(sess.Username)
	if name == "" {
		name = "User"
	}
	return &record.User{Username: name}, nil
}

// LastCredentials returns the remembered sign-in.
func (s *Users) LastCredentials(ctx context.Context) (Credentials, error) {
	if err := s.ready(); err != nil {
		return Credentials{}, err
	}
	return store.Load(s.Store, store.LastCredentials, Credentials{}), nil
}
