// Package domain defines the persistence models for contact requests and
// their attachments. These types are mapped with GORM and form the core data
// layer of the practice back-office.
package domain

import (
	"time"
)

// MaxAttachments caps the number of files a visitor may attach to a single
// contact request. The list is fixed at creation.
const MaxAttachments = 3

// ContactRequest is a message submitted through the public contact or
// appointment form and triaged by an administrator.
//
// Fields:
//   - ID: UUID primary key (char(36)), generated at creation and immutable.
//   - FullName / Email / Subject / Message: visitor-supplied text, validated
//     at creation only.
//   - Status: lifecycle state, PENDING at creation (see CanTransition).
//   - UserID: optional weak reference to an authenticated submitter; no FK,
//     the request owns no lifecycle tied to the user.
//   - SearchText: folded copy of the searchable fields, written once at
//     creation and never serialized.
//   - Attachments: 0..MaxAttachments files in submission order; cascade
//     deleted with the request.
//   - CreatedAt / UpdatedAt: UpdatedAt is refreshed by every status mutation.
type ContactRequest struct {
	ID          string       `json:"id"         gorm:"type:char(36);primaryKey"`
	FullName    string       `json:"full_name"  gorm:"type:varchar(255);not null;index:idx_contact_requests_full_name"`
	Email       string       `json:"email"      gorm:"type:varchar(320);not null;index:idx_contact_requests_email"`
	Subject     string       `json:"subject"    gorm:"type:varchar(255);not null"`
	Message     string       `json:"message"    gorm:"type:text;not null"`
	Status      Status       `json:"status"     gorm:"type:varchar(16);not null;default:'PENDING';index:idx_contact_requests_status;check:chk_contact_requests_status,status IN ('PENDING','IN_PROGRESS','COMPLETED','ARCHIVED')"`
	UserID      *string      `json:"user_id,omitempty" gorm:"type:varchar(64);index"`
	SearchText  string       `json:"-"          gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time    `json:"created_at" gorm:"index:idx_contact_requests_created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Attachments []Attachment `json:"attachments" gorm:"foreignKey:ContactRequestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ContactRequest.
func (ContactRequest) TableName() string { return "contact_requests" }

// Attachment is a file uploaded by the visitor before submission. The URL is
// produced by the external upload service and stored verbatim.
type Attachment struct {
	ID               string    `json:"id"       gorm:"type:char(36);primaryKey"`
	ContactRequestID string    `json:"-"        gorm:"type:char(36);not null;index:idx_request_attachments,priority:1"`
	Position         int       `json:"-"        gorm:"not null;default:0;index:idx_request_attachments,priority:2"`
	Filename         string    `json:"filename" gorm:"type:varchar(255);not null"`
	URL              string    `json:"url"      gorm:"type:text;not null"`
	CreatedAt        time.Time `json:"-"`
}

// TableName returns the database table name for Attachment.
func (Attachment) TableName() string { return "contact_request_attachments" }
