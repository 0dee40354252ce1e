package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Role is the closed set of account roles. The zero value is not a valid role.
type Role uint8

const (
	RoleCitizen Role = iota + 1
	RoleWorker
	RoleAdmin
)

// Roles lists every valid role.
var Roles = []Role{RoleCitizen, RoleWorker, RoleAdmin}

func (r Role) String() string {
	switch r {
	case RoleCitizen:
		return "citizen"
	case RoleWorker:
		return "worker"
	case RoleAdmin:
		return "admin"
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleWorker, RoleAdmin:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	switch s {
	case "citizen":
		return RoleCitizen, nil
	case "worker":
		return RoleWorker, nil
	case "admin":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// CanAdminister reports whether the role may use the admin surface.
func (r Role) CanAdminister() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleCitizen, RoleWorker:
		return false
	}
	return false
}

// CanBeAssigned reports whether issues may be assigned to the role.
func (r Role) CanBeAssigned() bool {
	switch r {
	case RoleWorker:
		return true
	case RoleCitizen, RoleAdmin:
		return false
	}
	return false
}

// CanModifyIssue reports whether the role may edit or delete an issue,
// given whether the caller created it.
func (r Role) CanModifyIssue(isCreator bool) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleCitizen, RoleWorker:
		return isCreator
	}
	return false
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Roles are stored as their names so the collection stays readable.
func (r Role) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !r.Valid() {
		return 0, nil, fmt.Errorf("cannot marshal invalid role %d", uint8(r))
	}
	return bson.MarshalValue(r.String())
}

func (r *Role) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	s, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
	if !ok {
		return fmt.Errorf("role must be a string, got %s", t)
	}
	return r.UnmarshalText([]byte(s))
}
