package services

import (
	"context"
	"testing"

	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewsCarryAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "teacher", model.RoleTeacher)
	alice := testutil.CreateUser(t, db, "alice", model.RoleStudent)
	bob := testutil.CreateUser(t, db, "bob", model.RoleStudent)
	course := testutil.CreateCourse(t, db, teacher.ID, "Course", model.CourseStatusPublished)
	svc := NewReviewService(db)
	ctx := context.Background()

	comment := "  Great course  "
	review, err := svc.Create(ctx, actorOf(alice), ReviewInput{StudentID: alice.ID, CourseID: course.ID, Rating: 5, Comment: &comment})
	require.NoError(t, err)
	require.NotNil(t, review.Comment)
	assert.Equal(t, "Great course", *review.Comment)

	_, err = svc.Create(ctx, actorOf(bob), ReviewInput{StudentID: bob.ID, CourseID: course.ID, Rating: 3})
	require.NoError(t, err)
	// repeat reviews are accepted
	_, err = svc.Create(ctx, actorOf(bob), ReviewInput{StudentID: bob.ID, CourseID: course.ID, Rating: 4})
	require.NoError(t, err)

	_, err = svc.Create(ctx, actorOf(bob), ReviewInput{StudentID: alice.ID, CourseID: course.ID, Rating: 1})
	assert.ErrorIs(t, err, ErrForbidden)

	reviews, err := svc.ListForCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	for _, r := range reviews {
		require.NotNil(t, r.User)
		assert.Equal(t, r.StudentID, r.User.ID)
		if r.StudentID == alice.ID {
			assert.Equal(t, "Alice", r.User.FirstName)
		}
	}

	none, err := svc.ListForCourse(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)
}
