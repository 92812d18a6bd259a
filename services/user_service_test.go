package services

import (
	"context"
	"testing"

	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerInput(username, email string) RegisterInput {
	return RegisterInput{
		Username:  username,
		Email:     email,
		Password:  "secret1",
		FirstName: "Jane",
		LastName:  "Doe",
	}
}

func TestRegisterDefaults(t *testing.T) {
	svc := NewUserService(testutil.NewDB(t))

	user, err := svc.Register(context.Background(), registerInput("jane", "jane@example.com"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	require.NotNil(t, user.ProfilePicURL)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Jane+Doe&background=3B82F6&color=fff", *user.ProfilePicURL)
}

func TestDefaultAvatarURLUsesFullName(t *testing.T) {
	assert.Equal(t, "https://ui-avatars.com/api/?name=Ana+de+Souza&background=3B82F6&color=fff",
		DefaultAvatarURL(&model.User{FirstName: "Ana", LastName: "de Souza"}))
	assert.Equal(t, "https://ui-avatars.com/api/?name=Prince&background=3B82F6&color=fff",
		DefaultAvatarURL(&model.User{FirstName: "Prince"}))
}

func TestRegisterConflicts(t *testing.T) {
	svc := NewUserService(testutil.NewDB(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("jane", "jane@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerInput("other", "jane@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, registerInput("JANE", "jane2@example.com"))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	in := registerInput("short", "short@example.com")
	in.Password = "abc"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthenticate(t *testing.T) {
	svc := NewUserService(testutil.NewDB(t))
	ctx := context.Background()

	in := registerInput("Jane", "jane@example.com")
	in.Role = model.RoleTeacher
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	for _, identifier := range []string{"jane", "JANE", " Jane ", "jane@example.com"} {
		user, err := svc.Authenticate(ctx, identifier, "secret1")
		require.NoError(t, err, identifier)
		assert.Equal(t, model.RoleTeacher, user.Role)
	}

	_, err = svc.Authenticate(ctx, "jane", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc := NewUserService(testutil.NewDB(t))
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput("jane", "jane@example.com"))
	require.NoError(t, err)

	first := " Janet "
	bio := "Dentist"
	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{FirstName: &first, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "Doe", updated.LastName)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "Dentist", *updated.Bio)
	assert.Equal(t, "jane", updated.Username)

	_, err = svc.UpdateProfile(ctx, 999, ProfileUpdate{FirstName: &first})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByRole(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "teacher", model.RoleTeacher)
	testutil.CreateUser(t, db, "s1", model.RoleStudent)
	testutil.CreateUser(t, db, "s2", model.RoleStudent)
	svc := NewUserService(db)
	ctx := context.Background()

	students, err := svc.ListByRole(ctx, model.RoleStudent)
	require.NoError(t, err)
	assert.Len(t, students, 2)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.ListByRole(ctx, model.Role("janitor"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
