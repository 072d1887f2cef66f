package model

// ChatTurn is one role-tagged message of the caller-supplied history.
// Ordering is append-only and owned by the caller; only the latest user
// message is mandatory input.
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// TrainingRecord is the user's own record fetched from the records backend
// for BACKEND_LOOKUP / MIXED routes.
type TrainingRecord struct {
	UserID           string
	CompletedCourses []CourseProgress
	PendingCourses   []CourseProgress
	OverallProgress  float64 // 0-100
}

// CourseProgress is one course entry of a training record.
type CourseProgress struct {
	CourseID   string
	Title      string
	Progress   float64 // 0-100
	DueDate    string  // RFC3339 date string from the records API
	MandateTag string  // e.g. "법정의무교육", may be empty
}
