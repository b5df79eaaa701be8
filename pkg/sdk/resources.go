package sdk

import "time"

// Family is a household grouping of users and documents.
type Family struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// User is a vault account as seen in listings and profile reads.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	FamilyID    string    `json:"family_id,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Document is a stored file's metadata. File content transfer is out of
// scope for this client; uploads register metadata and receive an upload URL.
type Document struct {
	ID         string    `json:"id"`
	FamilyID   string    `json:"family_id"`
	CategoryID string    `json:"category_id,omitempty"`
	Title      string    `json:"title"`
	FileName   string    `json:"file_name"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Notification is a per-user message with a read flag.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category is a taxonomy node for classifying documents.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

// Mutation payloads. Every update rides through the gateway with a token
// derived from the resource's last read.

// UpdateProfilePayload changes the caller's own display name.
type UpdateProfilePayload struct {
	DisplayName string `json:"display_name"`
}

// UpdateFamilyPayload renames a family.
type UpdateFamilyPayload struct {
	Name string `json:"name"`
}

// ReassignUserPayload moves a user to another family.
type ReassignUserPayload struct {
	FamilyID string `json:"family_id"`
}

// MarkNotificationReadPayload flips a notification's read state.
type MarkNotificationReadPayload struct {
	Read bool `json:"read"`
}

// UploadDocumentInput registers a new document. GUID is optional; a random
// UUID is generated when empty.
type UploadDocumentInput struct {
	GUID       string
	FamilyID   string
	CategoryID string
	Title      string
	FileName   string
	SizeBytes  int64
}
