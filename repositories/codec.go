package repositories

import (
	"chat-relay/domain"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/protobuf/encoding/protowire"
)

// Values stored in badger use the protobuf wire format.
// Field numbers below are part of the on-disk format: never renumber, only append.

const (
	msgID protowire.Number = iota + 1
	msgGroupID
	msgGroupName
	msgSenderID
	msgSenderName
	msgKind
	msgText
	msgFilename
	msgURL
	msgIntendedFor
	msgReceivedBy
	msgCreatedAt
)

const (
	groupID protowire.Number = iota + 1
	groupName
	groupMembers
	groupCreatedBy
	groupCreatedAt
)

const (
	userID protowire.Number = iota + 1
	userUsername
	userEmail
	userPasswordHash
	userRoles
	userCreatedAt
	userVerified
)

const (
	auditID protowire.Number = iota + 1
	auditUsername
	auditAction
	auditTarget
	auditAt
)

// skipField asks decodeFields to skip a field the record doesn't know.
const skipField = math.MinInt32

type encoder struct {
	b []byte
}

func (e *encoder) string(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendString(e.b, v)
}

func (e *encoder) strings(num protowire.Number, vs []string) {
	for _, v := range vs {
		e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
		e.b = protowire.AppendString(e.b, v)
	}
}

func (e *encoder) time(num protowire.Number, t time.Time) {
	if t.IsZero() {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, uint64(t.UnixNano()))
}

func (e *encoder) bool(num protowire.Number, v bool) {
	if !v {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, protowire.EncodeBool(v))
}

func decodeFields(b []byte, field func(num protowire.Number, typ protowire.Type, b []byte) int) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m := field(num, typ, b)
		if m == skipField {
			m = protowire.ConsumeFieldValue(num, typ, b)
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}

func consumeString(typ protowire.Type, b []byte, dst *string) int {
	if typ != protowire.BytesType {
		return skipField
	}
	v, n := protowire.ConsumeString(b)
	if n >= 0 {
		*dst = v
	}
	return n
}

func consumeBool(typ protowire.Type, b []byte, dst *bool) int {
	if typ != protowire.VarintType {
		return skipField
	}
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		*dst = protowire.DecodeBool(v)
	}
	return n
}

func consumeTime(typ protowire.Type, b []byte, dst *time.Time) int {
	if typ != protowire.VarintType {
		return skipField
	}
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		*dst = time.Unix(0, int64(v)).UTC()
	}
	return n
}

func consumeUser(typ protowire.Type, b []byte, set domain.UserSet) int {
	var id string
	n := consumeString(typ, b, &id)
	if n >= 0 {
		set.Add(domain.UserID(id))
	}
	return n
}

func userStrings(set domain.UserSet) []string {
	return lo.Map(set.Sorted(), func(id domain.UserID, _ int) string { return string(id) })
}

func encodeMessage(m domain.Message) ([]byte, error) {
	e := encoder{}
	e.string(msgID, m.ID.String())
	e.string(msgGroupID, string(m.GroupID))
	e.string(msgGroupName, m.GroupName)
	e.string(msgSenderID, string(m.SenderID))
	e.string(msgSenderName, m.SenderName)
	switch p := m.Payload.(type) {
	case domain.Text:
		e.string(msgKind, string(domain.PayloadText))
		e.string(msgText, p.Body)
	case domain.File:
		e.string(msgKind, string(domain.PayloadFile))
		e.string(msgFilename, p.Filename)
		e.string(msgURL, p.URL)
	default:
		return nil, fmt.Errorf("unsupported payload %T", m.Payload)
	}
	e.strings(msgIntendedFor, userStrings(m.IntendedFor))
	e.strings(msgReceivedBy, userStrings(m.ReceivedBy))
	e.time(msgCreatedAt, m.CreatedAt)
	return e.b, nil
}

func decodeMessage(b []byte) (domain.Message, error) {
	var (
		id, kind, text, filename, url string
		groupID, senderID             string
	)
	m := domain.Message{IntendedFor: domain.NewUserSet(), ReceivedBy: domain.NewUserSet()}
	err := decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case msgID:
			return consumeString(typ, b, &id)
		case msgGroupID:
			return consumeString(typ, b, &groupID)
		case msgGroupName:
			return consumeString(typ, b, &m.GroupName)
		case msgSenderID:
			return consumeString(typ, b, &senderID)
		case msgSenderName:
			return consumeString(typ, b, &m.SenderName)
		case msgKind:
			return consumeString(typ, b, &kind)
		case msgText:
			return consumeString(typ, b, &text)
		case msgFilename:
			return consumeString(typ, b, &filename)
		case msgURL:
			return consumeString(typ, b, &url)
		case msgIntendedFor:
			return consumeUser(typ, b, m.IntendedFor)
		case msgReceivedBy:
			return consumeUser(typ, b, m.ReceivedBy)
		case msgCreatedAt:
			return consumeTime(typ, b, &m.CreatedAt)
		default:
			return skipField
		}
	})
	if err != nil {
		return domain.Message{}, err
	}
	if m.ID, err = uuid.Parse(id); err != nil {
		return domain.Message{}, fmt.Errorf("message id %q: %w", id, err)
	}
	m.GroupID = domain.GroupID(groupID)
	m.SenderID = domain.UserID(senderID)
	switch domain.PayloadKind(kind) {
	case domain.PayloadText:
		m.Payload = domain.Text{Body: text}
	case domain.PayloadFile:
		m.Payload = domain.File{Filename: filename, URL: url}
	default:
		return domain.Message{}, fmt.Errorf("message %s: unknown payload kind %q", id, kind)
	}
	return m, nil
}

func encodeGroup(g domain.Group) []byte {
	e := encoder{}
	e.string(groupID, string(g.ID))
	e.string(groupName, g.Name)
	e.strings(groupMembers, userStrings(g.Members))
	e.string(groupCreatedBy, string(g.CreatedBy))
	e.time(groupCreatedAt, g.CreatedAt)
	return e.b
}

func decodeGroup(b []byte) (domain.Group, error) {
	var id, createdBy string
	g := domain.Group{Members: domain.NewUserSet()}
	err := decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case groupID:
			return consumeString(typ, b, &id)
		case groupName:
			return consumeString(typ, b, &g.Name)
		case groupMembers:
			return consumeUser(typ, b, g.Members)
		case groupCreatedBy:
			return consumeString(typ, b, &createdBy)
		case groupCreatedAt:
			return consumeTime(typ, b, &g.CreatedAt)
		default:
			return skipField
		}
	})
	g.ID = domain.GroupID(id)
	g.CreatedBy = domain.UserID(createdBy)
	return g, err
}

func encodeUser(u User) []byte {
	e := encoder{}
	e.string(userID, u.ID)
	e.string(userUsername, u.Username)
	e.string(userEmail, u.Email)
	e.string(userPasswordHash, u.PasswordHash)
	e.strings(userRoles, u.Roles)
	e.time(userCreatedAt, u.CreatedAt)
	e.bool(userVerified, u.Verified)
	return e.b
}

func decodeUser(b []byte) (User, error) {
	var u User
	err := decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case userID:
			return consumeString(typ, b, &u.ID)
		case userUsername:
			return consumeString(typ, b, &u.Username)
		case userEmail:
			return consumeString(typ, b, &u.Email)
		case userPasswordHash:
			return consumeString(typ, b, &u.PasswordHash)
		case userRoles:
			var role string
			n := consumeString(typ, b, &role)
			if n >= 0 {
				u.Roles = append(u.Roles, role)
			}
			return n
		case userCreatedAt:
			return consumeTime(typ, b, &u.CreatedAt)
		case userVerified:
			return consumeBool(typ, b, &u.Verified)
		default:
			return skipField
		}
	})
	return u, err
}

func encodeAudit(a domain.AuditEntry) []byte {
	e := encoder{}
	e.string(auditID, a.ID.String())
	e.string(auditUsername, a.Username)
	e.string(auditAction, string(a.Action))
	e.string(auditTarget, a.Target)
	e.time(auditAt, a.At)
	return e.b
}

func decodeAudit(b []byte) (domain.AuditEntry, error) {
	var id, action string
	var a domain.AuditEntry
	err := decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case auditID:
			return consumeString(typ, b, &id)
		case auditUsername:
			return consumeString(typ, b, &a.Username)
		case auditAction:
			return consumeString(typ, b, &action)
		case auditTarget:
			return consumeString(typ, b, &a.Target)
		case auditAt:
			return consumeTime(typ, b, &a.At)
		default:
			return skipField
		}
	})
	if err != nil {
		return domain.AuditEntry{}, err
	}
	a.Action = domain.AuditAction(action)
	a.ID, err = uuid.Parse(id)
	return a, err
}
