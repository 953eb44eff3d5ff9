package domain

// StudentOverview aggregates a student's activity across the platform.
type StudentOverview struct {
	EnrolledCourses  int64
	CompletedCourses int64
	QuizzesTaken     int64
	AverageScore     float64
	ChatSessions     int64
}

// InstructorOverview aggregates activity across an instructor's courses.
type InstructorOverview struct {
	Courses     int64
	Students    int64
	Enrollments int64
	Quizzes     int64
}

// CourseAnalytics summarizes engagement with a single course.
type CourseAnalytics struct {
	CourseID        string
	Enrolled        int64
	Completed       int64
	AverageProgress float64
	Quizzes         int64
	Submissions     int64
	AverageScore    float64
}

// LeaderboardEntry ranks one student by average quiz score. Only students
// who have taken at least one quiz appear.
type LeaderboardEntry struct {
	UserID           string
	UserName         string
	Score            float64
	QuizzesTaken     int64
	CoursesCompleted int64
}
