// Package policy holds the authorization table: which capability each API
// operation requires, plus the ownership predicates services apply once the
// target resource is loaded.
package policy

import (
	"fmt"

	"github.com/learnhub-platform/learnhub-api/model"
)

// Actor is the caller of an operation. A zero Actor is anonymous.
type Actor struct {
	ID   uint
	Role model.Role
}

// Authenticated reports whether the actor is a logged-in user.
func (a Actor) Authenticated() bool { return a.ID != 0 }

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// IsStaff reports whether the actor is a teacher or an admin.
func (a Actor) IsStaff() bool { return a.Role.IsStaff() }

// Kind is the shape of check a Capability performs.
type Kind int

const (
	// Public operations run for anyone; identity is attached when present.
	Public Kind = iota
	// Authenticated operations need any logged-in user.
	Authenticated
	// RolesOnly operations need one of Capability.Roles.
	RolesOnly
	// OwnerOrAdmin operations need teacher or admin at the route; the service then
	// checks the caller owns the course (CanManageCourse).
	OwnerOrAdmin
	// SelfOrStaff operations need staff, or a student acting on their own id.
	SelfOrStaff
)

// Subject says where a SelfOrStaff guard finds the student id.
type Subject int

const (
	SubjectNone Subject = iota
	SubjectBody         // "studentId" in the JSON body
	SubjectPath         // ":id" route parameter
)

// Capability is what a caller needs to run an operation.
type Capability struct {
	Kind    Kind
	Roles   []model.Role
	Subject Subject
}

// Allows reports whether role satisfies the role part of the capability.
func (c Capability) Allows(role model.Role) bool {
	switch c.Kind {
	case RolesOnly:
		for _, r := range c.Roles {
			if r == role {
				return true
			}
		}
		return false
	case OwnerOrAdmin:
		return role.IsStaff()
	default:
		return true
	}
}

// Operation names a guarded API route in the policy table.
type Operation string

const (
	UserList       Operation = "user.list"
	UserListByRole Operation = "user.listByRole"
	UserProfile    Operation = "user.profile"
	UserUpdate     Operation = "user.update"
	AuthLogout     Operation = "auth.logout"

	CourseCreate        Operation = "course.create"
	CourseRead          Operation = "course.read"
	CourseList          Operation = "course.list"
	CourseListByTeacher Operation = "course.listByTeacher"
	CourseUpdate        Operation = "course.update"
	CourseDelete        Operation = "course.delete"

	LessonCreate       Operation = "lesson.create"
	LessonListByCourse Operation = "lesson.listByCourse"
	LessonUpdate       Operation = "lesson.update"
	LessonDelete       Operation = "lesson.delete"

	EnrollmentCreate        Operation = "enrollment.create"
	EnrollmentListByStudent Operation = "enrollment.listByStudent"
	EnrollmentUpdate        Operation = "enrollment.update"

	ProgressCreate        Operation = "progress.create"
	ProgressListByStudent Operation = "progress.listByStudent"
	ProgressUpdate        Operation = "progress.update"

	ReviewCreate       Operation = "review.create"
	ReviewListByCourse Operation = "review.listByCourse"

	AIGenerate Operation = "ai.generate"

	AnalyticsOverview Operation = "analytics.overview"
	AnalyticsExport   Operation = "analytics.export"
	AnalyticsTeacher  Operation = "analytics.teacher"

	UploadCreate Operation = "upload.create"

	AdminAuditList Operation = "admin.auditList"
	AdminCronList  Operation = "admin.cronList"
)

var (
	staff     = []model.Role{model.RoleTeacher, model.RoleAdmin}
	adminOnly = []model.Role{model.RoleAdmin}
)

// Table maps every guarded operation to its capability.
var Table = map[Operation]Capability{
	UserList:       {Kind: RolesOnly, Roles: adminOnly},
	UserListByRole: {Kind: RolesOnly, Roles: staff},
	UserProfile:    {Kind: Authenticated},
	UserUpdate:     {Kind: Authenticated},
	AuthLogout:     {Kind: Authenticated},

	CourseCreate:        {Kind: RolesOnly, Roles: staff},
	CourseRead:          {Kind: Public},
	CourseList:          {Kind: Public},
	CourseListByTeacher: {Kind: Public},
	CourseUpdate:        {Kind: OwnerOrAdmin},
	CourseDelete:        {Kind: OwnerOrAdmin},

	LessonCreate:       {Kind: OwnerOrAdmin},
	LessonListByCourse: {Kind: Public},
	LessonUpdate:       {Kind: OwnerOrAdmin},
	LessonDelete:       {Kind: OwnerOrAdmin},

	EnrollmentCreate:        {Kind: SelfOrStaff, Subject: SubjectBody},
	EnrollmentListByStudent: {Kind: SelfOrStaff, Subject: SubjectPath},
	EnrollmentUpdate:        {Kind: Authenticated},

	ProgressCreate:        {Kind: SelfOrStaff, Subject: SubjectBody},
	ProgressListByStudent: {Kind: SelfOrStaff, Subject: SubjectPath},
	ProgressUpdate:        {Kind: Authenticated},

	ReviewCreate:       {Kind: SelfOrStaff, Subject: SubjectBody},
	ReviewListByCourse: {Kind: Public},

	AIGenerate: {Kind: RolesOnly, Roles: staff},

	AnalyticsOverview: {Kind: RolesOnly, Roles: adminOnly},
	AnalyticsExport:   {Kind: RolesOnly, Roles: adminOnly},
	AnalyticsTeacher:  {Kind: RolesOnly, Roles: staff},

	UploadCreate: {Kind: RolesOnly, Roles: staff},

	AdminAuditList: {Kind: RolesOnly, Roles: adminOnly},
	AdminCronList:  {Kind: RolesOnly, Roles: adminOnly},
}

// Lookup returns the capability for op. Routes are registered at startup, so
// an unknown operation is a programming error.
func Lookup(op Operation) Capability {
	c, ok := Table[op]
	if !ok {
		panic(fmt.Sprintf("policy: no capability registered for %q", op))
	}
	return c
}

// CanActForStudent: staff may act for anyone, a student only for themselves.
func CanActForStudent(a Actor, studentID uint) bool {
	if !a.Authenticated() {
		return false
	}
	return a.IsStaff() || a.ID == studentID
}

// CanManageCourse: admins manage every course, teachers only their own.
func CanManageCourse(a Actor, teacherID uint) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == model.RoleTeacher && a.ID == teacherID
}

// CanViewCourse: published courses are visible to all; others only to whoever can manage them.
func CanViewCourse(a Actor, c *model.Course) bool {
	return c.IsPublished() || CanManageCourse(a, c.TeacherID)
}

// CanViewTeacherAnalytics: a teacher sees their own numbers, an admin sees anyone's.
func CanViewTeacherAnalytics(a Actor, teacherID uint) bool {
	return a.IsAdmin() || (a.Role == model.RoleTeacher && a.ID == teacherID)
}
