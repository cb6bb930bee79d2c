package models

import (
	"time"

	"uservice/src/types"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Message struct {
	ID          uuid.UUID             `gorm:"type:uuid;primarykey" json:"id"`
	Subject     string                `gorm:"size:200;not null" json:"subject"`
	Content     string                `gorm:"size:5000;not null" json:"content"`
	SenderID    uuid.UUID             `gorm:"type:uuid;index;not null" json:"sender_id"`
	RecipientID uuid.UUID             `gorm:"type:uuid;index;not null" json:"recipient_id"`
	Category    types.MessageCategory `gorm:"size:20;index;not null" json:"category"`
	Priority    types.MessagePriority `gorm:"size:20;index;not null" json:"priority"`
	Status      types.MessageStatus   `gorm:"size:20;index;not null" json:"status"`
	ReadAt      *time.Time            `json:"read_at,omitempty"`
	RepliedAt   *time.Time            `json:"replied_at,omitempty"`
	ClosedAt    *time.Time            `json:"closed_at,omitempty"`

	ThreadID         *uuid.UUID                     `gorm:"type:uuid;index" json:"thread_id,omitempty"`
	Replies          datatypes.JSONSlice[uuid.UUID] `json:"replies"`
	Tags             datatypes.JSONSlice[string]    `json:"tags"`
	RelatedBookingID *uuid.UUID                     `gorm:"type:uuid;index" json:"related_booking_id,omitempty"`
	AssignedToID     *uuid.UUID                     `gorm:"type:uuid" json:"assigned_to_id,omitempty"`
	DueDate          *time.Time                     `json:"due_date,omitempty"`
	Attachments      datatypes.JSONSlice[string]    `json:"attachments"`

	Sender    *User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"recipient,omitempty"`

	types.Timestamps
}

func (m *Message) Party(id uuid.UUID) bool {
	return m.SenderID == id || m.RecipientID == id
}

// Root is the id of the thread this message belongs to.
func (m *Message) Root() uuid.UUID {
	if m.ThreadID != nil {
		return *m.ThreadID
	}
	return m.ID
}

// SetStatus moves the message to status and stamps the matching timestamp
// the first time that status is reached.
func (m *Message) SetStatus(status types.MessageStatus, at time.Time) {
	m.Status = status
	switch status {
	case types.MESSAGE_READ:
		if m.ReadAt == nil {
			m.ReadAt = &at
		}
	case types.MESSAGE_REPLIED:
		if m.RepliedAt == nil {
			m.RepliedAt = &at
		}
	case types.MESSAGE_CLOSED:
		if m.ClosedAt == nil {
			m.ClosedAt = &at
		}
	}
}
