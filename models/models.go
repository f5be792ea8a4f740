package models

// Staff represents a registered staff member
type Staff struct {
	ID           int64  `json:"id"`      // Internal database id
	StaffID      string `json:"staffId"` // Public staff id (e.g. SID00001)
	Email        string `json:"email"`   // Unique login email
	PasswordHash string `json:"-"`       // bcrypt hash, never serialized
}

// Question represents a multiple-choice quiz question
type Question struct {
	ID       int64     `json:"id"`       // Unique question ID
	Question string    `json:"question"` // Question text
	Options  [4]string `json:"options"`  // The four answer options
	Answer   int       `json:"answer"`   // 1-based index of the correct option
}
