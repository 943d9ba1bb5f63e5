package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	ActionSignup       AuditAction = "SIGNUP"
	ActionLogin        AuditAction = "LOGIN"
	ActionSendDenied   AuditAction = "SEND_DENIED"
	ActionUpload       AuditAction = "UPLOAD"
	ActionCreateGroup  AuditAction = "CREATE_GROUP"
	ActionAddMembers   AuditAction = "ADD_TO_GROUP"
	ActionRemoveMember AuditAction = "REMOVE_FROM_GROUP"
	ActionDeleteLog    AuditAction = "DELETE_LOG"
	ActionVerifyUser   AuditAction = "VERIFY_USER"
	ActionUnverifyUser AuditAction = "UNVERIFY_USER"
)

// AuditEntry records who did what, on which target.
type AuditEntry struct {
	ID       uuid.UUID
	Username string
	Action   AuditAction
	Target   string
	At       time.Time
}
