package models

import "time"

type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindImage MessageKind = "image"
)

// DeletionScope selects which deletion flag a delete request targets.
type DeletionScope string

const (
	// DeleteForSelf hides the message from the requesting party only.
	DeleteForSelf DeletionScope = "self"
	// DeleteForAll hides the message from everyone. Sender only.
	DeleteForAll DeletionScope = "all"
)

func (s DeletionScope) Valid() bool {
	return s == DeleteForSelf || s == DeleteForAll
}

// Message is a direct message between two users.
//
// The three deletion flags are monotonic: they only ever go false -> true,
// and the row is never physically removed by a deletion request. Which
// flags apply depends on who is asking; see VisibleTo.
type Message struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	SenderID string `gorm:"index;not null" json:"senderId"`
	Sender   User   `gorm:"foreignKey:SenderID" json:"sender,omitempty"`

	ReceiverID string `gorm:"index;not null" json:"receiverId"`
	Receiver   User   `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`

	Content       string      `gorm:"type:text" json:"content"`
	Kind          MessageKind `gorm:"type:text;default:'text'" json:"kind"`
	AttachmentURL string      `json:"attachmentUrl,omitempty"`

	IsRead bool       `gorm:"default:false" json:"isRead"`
	ReadAt *time.Time `json:"readAt,omitempty"`

	DeletedForSender   bool `gorm:"default:false" json:"-"`
	DeletedForReceiver bool `gorm:"default:false" json:"-"`
	DeletedForAll      bool `gorm:"default:false" json:"-"`
}

// VisibleTo reports whether viewer should see this message.
// Non-participants never see it; deleted-for-all hides it from both parties;
// otherwise each party is governed by their own flag.
func (m *Message) VisibleTo(viewerID string) bool {
	if m.DeletedForAll {
		return false
	}
	switch viewerID {
	case m.SenderID:
		return !m.DeletedForSender
	case m.ReceiverID:
		return !m.DeletedForReceiver
	default:
		return false
	}
}

// DeletionColumn resolves the column a (actor, scope) deletion request
// writes. Returns "" if the actor is not allowed to perform the request:
// deleting for everyone is sender-only, deleting for self requires being a
// participant. The resolved column is only ever written false -> true.
func (m *Message) DeletionColumn(actorID string, scope DeletionScope) string {
	switch scope {
	case DeleteForAll:
		if actorID == m.SenderID {
			return "deleted_for_all"
		}
	case DeleteForSelf:
		if actorID == m.SenderID {
			return "deleted_for_sender"
		}
		if actorID == m.ReceiverID {
			return "deleted_for_receiver"
		}
	}
	return ""
}

// DeletionApplied reports whether the flag for (actor, scope) is already set,
// so a repeated delete can be treated as a no-op success.
func (m *Message) DeletionApplied(actorID string, scope DeletionScope) bool {
	switch m.DeletionColumn(actorID, scope) {
	case "deleted_for_all":
		return m.DeletedForAll
	case "deleted_for_sender":
		return m.DeletedForSender
	case "deleted_for_receiver":
		return m.DeletedForReceiver
	}
	return false
}
