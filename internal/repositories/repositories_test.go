package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/taskx/internal/models"
	"github.com/desertthunder/taskx/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func mustCreateUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()
	user, err := NewUserRepository(db).Create(email, "")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "tasks")
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for table without sequence")
	}
}

func TestStateRepository(t *testing.T) {
	t.Run("Load Missing Key", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		value, found, err := NewStateRepository(db).Load("current_user")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if found || value != nil {
			t.Errorf("expected nothing stored, got %q", value)
		}
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStateRepository(db)
		if err := repo.Save("current_user", []byte(`{"id":"1"}`)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := repo.Save("current_user", []byte(`{"id":"2"}`)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		value, found, err := repo.Load("current_user")
		if err != nil || !found {
			t.Fatalf("expected stored value, got found=%v err=%v", found, err)
		}
		if string(value) != `{"id":"2"}` {
			t.Errorf("expected latest value, got %s", value)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStateRepository(db)
		repo.Save("current_user", []byte("x"))

		if err := repo.Remove("current_user"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if err := repo.Remove("current_user"); err != nil {
			t.Errorf("removing an absent key should succeed, got %v", err)
		}

		if _, found, _ := repo.Load("current_user"); found {
			t.Error("expected key to be removed")
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()

		repo := NewStateRepository(db)
		if _, _, err := repo.Load("k"); err == nil {
			t.Error("expected Load error on closed database")
		}
		if err := repo.Save("k", []byte("v")); err == nil {
			t.Error("expected Save error on closed database")
		}
		if err := repo.Remove("k"); err == nil {
			t.Error("expected Remove error on closed database")
		}
	})
}

func TestUserRepository(t *testing.T) {
	t.Run("Create Normalizes Email", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user, err := NewUserRepository(db).Create("  Test@Example.COM ", "Test User")
		if err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
		if user.ID == "" {
			t.Error("user ID should be set after creation")
		}
		if user.Email != "test@example.com" {
			t.Errorf("expected normalized email, got %s", user.Email)
		}
	})

	t.Run("Create Invalid Email", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewUserRepository(db).Create("not-an-email", "")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		mustCreateUser(t, db, "a@b.com")

		_, err := repo.Create("A@B.com", "Other")
		if !errors.Is(err, shared.ErrUserExists) {
			t.Errorf("expected ErrUserExists, got %v", err)
		}
	})

	t.Run("Get and GetByEmail", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := mustCreateUser(t, db, "a@b.com")

		byID, err := repo.Get(user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if *byID != *user {
			t.Errorf("expected %+v, got %+v", user, byID)
		}

		byEmail, err := repo.GetByEmail(" A@B.COM")
		if err != nil {
			t.Fatalf("failed to get user by email: %v", err)
		}
		if byEmail.ID != user.ID {
			t.Errorf("expected ID %s, got %s", user.ID, byEmail.ID)
		}

		if _, err := repo.GetByEmail("nobody@b.com"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := mustCreateUser(t, db, "a@b.com")

		if err := repo.Delete(user.ID); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}
		if _, err := repo.Get(user.ID); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound after delete, got %v", err)
		}
		if err := repo.Delete(user.ID); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound on second delete, got %v", err)
		}

		if _, err := repo.Create("a@b.com", ""); err != nil {
			t.Errorf("email should be reusable after soft delete, got %v", err)
		}
	})
}

func TestTaskRepository(t *testing.T) {
	t.Run("Create and List Newest First", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := mustCreateUser(t, db, "a@b.com")
		repo := NewTaskRepository(db)

		first, err := repo.Create(user.ID, models.TaskInput{Title: "  first  ", Description: " d "})
		if err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
		if first.Title != "first" || first.Description != "d" || first.Completed {
			t.Errorf("unexpected created task %+v", first)
		}

		second, err := repo.Create(user.ID, models.TaskInput{Title: "second"})
		if err != nil {
			t.Fatalf("failed to create task: %v", err)
		}

		tasks, err := repo.List(user.ID)
		if err != nil {
			t.Fatalf("failed to list tasks: %v", err)
		}
		if len(tasks) != 2 || tasks[0].ID != second.ID || tasks[1].ID != first.ID {
			t.Errorf("expected newest first, got %+v", tasks)
		}
	})

	t.Run("List Is Scoped To User", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		alice := mustCreateUser(t, db, "alice@b.com")
		bob := mustCreateUser(t, db, "bob@b.com")
		repo := NewTaskRepository(db)

		if _, err := repo.Create(alice.ID, models.TaskInput{Title: "alice task"}); err != nil {
			t.Fatalf("failed to create task: %v", err)
		}

		tasks, err := repo.List(bob.ID)
		if err != nil {
			t.Fatalf("failed to list tasks: %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("expected no tasks for bob, got %d", len(tasks))
		}
		if tasks == nil {
			t.Error("expected empty slice, not nil")
		}
	})

	t.Run("Create Requires Title", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := mustCreateUser(t, db, "a@b.com")
		_, err := NewTaskRepository(db).Create(user.ID, models.TaskInput{Title: "   "})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := mustCreateUser(t, db, "a@b.com")
		repo := NewTaskRepository(db)
		task, _ := repo.Create(user.ID, models.TaskInput{Title: "t", Description: "keep"})

		updated, err := repo.Update(user.ID, task.ID, models.CompletedChange(true))
		if err != nil {
			t.Fatalf("failed to update task: %v", err)
		}
		if !updated.Completed || updated.Description != "keep" {
			t.Errorf("expected only completed to change, got %+v", updated)
		}

		stored, err := repo.Get(user.ID, task.ID)
		if err != nil {
			t.Fatalf("failed to get task: %v", err)
		}
		if *stored != *updated {
			t.Errorf("expected stored %+v, got %+v", updated, stored)
		}

		if _, err := repo.Update(user.ID, task.ID, models.ContentChange("", "x")); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for blank title, got %v", err)
		}
		if _, err := repo.Update(user.ID, "missing", models.CompletedChange(false)); !errors.Is(err, shared.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := mustCreateUser(t, db, "a@b.com")
		other := mustCreateUser(t, db, "other@b.com")
		repo := NewTaskRepository(db)
		task, _ := repo.Create(user.ID, models.TaskInput{Title: "t"})

		if err := repo.Delete(other.ID, task.ID); !errors.Is(err, shared.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound for foreign owner, got %v", err)
		}
		if err := repo.Delete(user.ID, task.ID); err != nil {
			t.Fatalf("failed to delete task: %v", err)
		}
		if _, err := repo.Get(user.ID, task.ID); !errors.Is(err, shared.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound after delete, got %v", err)
		}

		tasks, _ := repo.List(user.ID)
		if len(tasks) != 0 {
			t.Errorf("expected deleted task to be hidden, got %+v", tasks)
		}
	})
}
