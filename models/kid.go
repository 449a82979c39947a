package models

import "time"

// Kid — одна заявка: один ребёнок, одна секция.
type Kid struct {
	ID       int    `json:"id"`
	ParentID int    `json:"parent_id"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Sport    Sport  `json:"sport"`

	Gender                string `json:"gender,omitempty"`
	School                string `json:"school,omitempty"`
	Grade                 string `json:"grade,omitempty"`
	ExperienceLevel       string `json:"experience_level,omitempty"`
	ParentPhone           string `json:"parent_phone,omitempty"`
	EmergencyContactName  string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `json:"emergency_contact_phone,omitempty"`
	ShirtSize             string `json:"shirt_size,omitempty"`
	MedicalNotes          string `json:"medical_notes,omitempty"`
	SpecialRequests       string `json:"special_requests,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Аннотация профиля родителя, заполняется только в админских выборках.
	Parent *Profile `json:"parent,omitempty"`
}
