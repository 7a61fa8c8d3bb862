package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/polkiloo/usersvc/internal/domain/errors"
	"github.com/polkiloo/usersvc/internal/domain/model"
)

const (
	selectByIDPattern    = "SELECT id, username, password FROM users WHERE id="
	selectByCredsPattern = "SELECT id, username, password FROM users WHERE username="
	selectAllPattern     = "SELECT id, username, password FROM users ORDER BY id"
	rolesByUserPattern   = "SELECT users_roles.roles FROM users_roles"
)

var userColumns = []string{"id", "username", "password"}

func newMockUserRepository(t *testing.T) (*userRepository, pgxmockv3.PgxPoolIface) {
	t.Helper()
	storage, mock := newMockStorage(t)
	return &userRepository{storage: storage, roles: NewPerUserRoleLoader(mock, 1)}, mock
}

func expectRoles(mock pgxmockv3.PgxPoolIface, userID int64, roles ...string) {
	rows := pgxmockv3.NewRows([]string{"roles"})
	for _, r := range roles {
		rows.AddRow(r)
	}
	mock.ExpectQuery(rolesByUserPattern).WithArgs(userID).WillReturnRows(rows)
}

func expectUserByID(mock pgxmockv3.PgxPoolIface, id int64, username, password string, roles ...string) {
	mock.ExpectQuery(selectByIDPattern).WithArgs(id).WillReturnRows(
		pgxmockv3.NewRows(userColumns).AddRow(id, username, password))
	expectRoles(mock, id, roles...)
}

func sameRoles(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	counts := make(map[string]int, len(want))
	for _, r := range want {
		counts[r]++
	}
	for _, r := range got {
		counts[r]--
		if counts[r] < 0 {
			return false
		}
	}
	return true
}

func TestUserRepositoryCreate(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").WithArgs("alice", "p1").WillReturnRows(
		pgxmockv3.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCopyFrom(pgx.Identifier{"users_roles"}, []string{"user_id", "roles"}).WillReturnResult(2)
	mock.ExpectCommit()
	expectUserByID(mock, 1, "alice", "p1", "admin", "editor")

	user, err := repo.Create(context.Background(), model.User{Username: "alice", Password: "p1", Roles: []string{"admin", "editor"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 1 || user.Username != "alice" || user.Password != "p1" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !sameRoles(user.Roles, []string{"admin", "editor"}) {
		t.Fatalf("unexpected roles: %v", user.Roles)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepositoryCreateWithoutRolesSkipsCopy(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").WithArgs("bob", "pw").WillReturnRows(
		pgxmockv3.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectCommit()
	expectUserByID(mock, 2, "bob", "pw")

	user, err := repo.Create(context.Background(), model.User{Username: "bob", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Roles == nil || len(user.Roles) != 0 {
		t.Fatalf("expected empty non-nil roles, got %#v", user.Roles)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepositoryCreateFailures(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	defer mock.Close()

	insertErr := &pgconn.PgError{Code: "23502"}
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").WithArgs("", "").WillReturnError(insertErr)
	mock.ExpectRollback()
	if _, err := repo.Create(context.Background(), model.User{}); !errors.Is(err, insertErr) {
		t.Fatalf("expected store error to propagate unchanged, got %v", err)
	}

	copyErr := errors.New("copy failed")
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").WithArgs("alice", "p1").WillReturnRows(
		pgxmockv3.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectCopyFrom(pgx.Identifier{"users_roles"}, []string{"user_id", "roles"}).WillReturnError(copyErr)
	mock.ExpectRollback()
	if _, err := repo.Create(context.Background(), model.User{Username: "alice", Password: "p1", Roles: []string{"admin"}}); !errors.Is(err, copyErr) {
		t.Fatalf("expected copy error, got %v", err)
	}

	mock.ExpectBegin().WillReturnError(errors.New("begin"))
	if _, err := repo.Create(context.Background(), model.User{Username: "alice"}); err == nil {
		t.Fatal("expected begin error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepositoryFetchByID(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	defer mock.Close()

	expectUserByID(mock, 1, "alice", "p1", "admin")
	user, err := repo.FetchByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "alice" || len(user.Roles) != 1 || user.Roles[0] != "admin" {
		t.Fatalf("unexpected user: %+v", user)
	}

	mock.ExpectQuery(selectByIDPattern).WithArgs(int64(2)).WillReturnRows(pgxmockv3.NewRows(userColumns))
	_, err = repo.FetchByID(context.Background(), 2)
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	var notFound *domainErrors.NotFoundError
	if !errors.As(err, &notFound) || notFound.Message != "User resource with given id 2 not found" {
		t.Fatalf("unexpected not found error: %v", err)
	}

	mock.ExpectQuery(selectByIDPattern).WithArgs(int64(3)).WillReturnError(errors.New("boom"))
	if _, err := repo.FetchByID(context.Background(), 3); err == nil || errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected store error, got %v", err)
	}

	mock.ExpectQuery(selectByIDPattern).WithArgs(int64(4)).WillReturnRows(
		pgxmockv3.NewRows(userColumns).AddRow(int64(4), "dave", "pw"))
	mock.ExpectQuery(rolesByUserPattern).WithArgs(int64(4)).WillReturnError(errors.New("roles"))
	if _, err := repo.FetchByID(context.Background(), 4); err == nil {
		t.Fatal("expected role query error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepositoryValidateUser(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	defer mock.Close()

	mock.ExpectQuery(selectByCredsPattern).WithArgs("alice", "p1").WillReturnRows(
		pgxmockv3.NewRows(userColumns).AddRow(int64(1), "alice", "p1"))
	expectRoles(mock, 1, "admin")
	user, err := repo.ValidateUser(context.Background(), model.User{Username: "alice", Password: "p1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 1 || user.Username != "alice" || user.Password != "p1" {
		t.Fatalf("unexpected user: %+v", user)
	}

	mock.ExpectQuery(selectByCredsPattern).WithArgs("alice", "wrong").WillReturnRows(pgxmockv3.NewRows(userColumns))
	_, err = repo.ValidateUser(context.Background(), model.User{Username: "alice", Password: "wrong"})
	var notFound *domainErrors.NotFoundError
	if !errors.As(err, &notFound) || notFound.Message != "User not found" {
		t.Fatalf("expected user not found, got %v", err)
	}

	mock.ExpectQuery(selectByCredsPattern).WithArgs("alice", "p1").WillReturnError(errors.New("down"))
	if _, err := repo.ValidateUser(context.Background(), model.User{Username: "alice", Password: "p1"}); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepositoryFetchAll(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	defer mock.Close()

	mock.ExpectQuery(selectAllPattern).WillReturnRows(
		pgxmockv3.NewRows(userColumns).
			AddRow(int64(1), "alice", "p1").
			AddRow(int64(2), "bob", "p2"))
	expectRoles(mock, 1, "admin", "editor")
	expectRoles(mock, 2)

	users, err := repo.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if !sameRoles(users[0].Roles, []string{"admin", "editor"}) {
		t.Fatalf("unexpected roles for alice: %v", users[0].Roles)
	}
	if users[1].Roles == nil || len(users[1].Roles) != 0 {
		t.Fatalf("expected empty roles for bob, got %#v", users[1].Roles)
	}

	mock.ExpectQuery(selectAllPattern).WillReturnRows(pgxmockv3.NewRows(userColumns))
	users, err = repo.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", users)
	}

	mock.ExpectQuery(selectAllPattern).WillReturnError(errors.New("boom"))
	if _, err := repo.FetchAll(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepositoryFetchAllRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := storage.Users(nil)
	if _, err := repo.FetchAll(context.Background()); err == nil {
		t.Fatal("expected rows error")
	}
}

func TestUserRepositoryUpdate(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET username").WithArgs("alice2", "p1", int64(1)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM users_roles WHERE user_id=").WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("DELETE", 2))
	mock.ExpectCopyFrom(pgx.Identifier{"users_roles"}, []string{"user_id", "roles"}).WillReturnResult(1)
	mock.ExpectCommit()
	expectUserByID(mock, 1, "alice2", "p1", "viewer")

	user, err := repo.Update(context.Background(), 1, model.User{Username: "alice2", Password: "p1", Roles: []string{"viewer"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "alice2" || len(user.Roles) != 1 || user.Roles[0] != "viewer" {
		t.Fatalf("expected roles to be replaced, got %+v", user)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepositoryUpdateMissingUser(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET username").WithArgs("ghost", "pw", int64(9)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectExec("DELETE FROM users_roles WHERE user_id=").WithArgs(int64(9)).WillReturnResult(pgxmockv3.NewResult("DELETE", 0))
	mock.ExpectCommit()
	mock.ExpectQuery(selectByIDPattern).WithArgs(int64(9)).WillReturnRows(pgxmockv3.NewRows(userColumns))

	if _, err := repo.Update(context.Background(), 9, model.User{Username: "ghost", Password: "pw"}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepositoryUpdateMissingUserWithRoles(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	defer mock.Close()

	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "users_roles_user_id_fkey"}
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET username").WithArgs("ghost", "pw", int64(9)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectExec("DELETE FROM users_roles WHERE user_id=").WithArgs(int64(9)).WillReturnResult(pgxmockv3.NewResult("DELETE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"users_roles"}, []string{"user_id", "roles"}).WillReturnError(fkErr)
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), 9, model.User{Username: "ghost", Password: "pw", Roles: []string{"admin"}})
	if errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("foreign key failure must not be reported as not found: %v", err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23503" {
		t.Fatalf("expected foreign key error to propagate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepositoryUpdateFailures(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET username").WithArgs("a", "b", int64(1)).WillReturnError(errors.New("update"))
	mock.ExpectRollback()
	if _, err := repo.Update(context.Background(), 1, model.User{Username: "a", Password: "b"}); err == nil {
		t.Fatal("expected update error")
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET username").WithArgs("a", "b", int64(1)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM users_roles WHERE user_id=").WithArgs(int64(1)).WillReturnError(errors.New("delete"))
	mock.ExpectRollback()
	if _, err := repo.Update(context.Background(), 1, model.User{Username: "a", Password: "b"}); err == nil {
		t.Fatal("expected delete error")
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET username").WithArgs("a", "b", int64(1)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM users_roles WHERE user_id=").WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("DELETE", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"users_roles"}, []string{"user_id", "roles"}).WillReturnError(errors.New("copy"))
	mock.ExpectRollback()
	if _, err := repo.Update(context.Background(), 1, model.User{Username: "a", Password: "b", Roles: []string{"x"}}); err == nil {
		t.Fatal("expected copy error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepositoryRemove(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM users_roles WHERE user_id=").WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("DELETE", 2))
	mock.ExpectExec("DELETE FROM users WHERE id=").WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("DELETE", 1))
	mock.ExpectCommit()
	if err := repo.Remove(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectQuery(selectByIDPattern).WithArgs(int64(1)).WillReturnRows(pgxmockv3.NewRows(userColumns))
	if _, err := repo.FetchByID(context.Background(), 1); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found after remove, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM users_roles WHERE user_id=").WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM users WHERE id=").WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("DELETE", 0))
	mock.ExpectCommit()
	if err := repo.Remove(context.Background(), 1); err != nil {
		t.Fatalf("expected repeated remove to be a no-op, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepositoryRemoveFailures(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM users_roles WHERE user_id=").WithArgs(int64(1)).WillReturnError(errors.New("roles"))
	mock.ExpectRollback()
	if err := repo.Remove(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM users_roles WHERE user_id=").WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM users WHERE id=").WithArgs(int64(1)).WillReturnError(errors.New("user"))
	mock.ExpectRollback()
	if err := repo.Remove(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
