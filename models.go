package storefront

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is a regular catalog user (read only access)
	RoleUser UserRole = "user"
	// RoleAdmin can manage the catalog
	RoleAdmin UserRole = "admin"
)

var roleRank = map[UserRole]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

// ParseRole validates a raw role string
func ParseRole(raw string) (UserRole, bool) {
	if _, ok := roleRank[raw]; ok {
		return UserRole(raw), true
	}
	return "", false
}

// RoleIsAtLeast reports if role meets the minimum required role
func RoleIsAtLeast(role, minRole UserRole) bool {
	return roleRank[role] >= roleRank[minRole]
}

// User is the user model. The refresh token slot is single valued: a user
// holds at most one live refresh token, and RefreshToken and
// RefreshTokenExpiresAt are always set and cleared together.
type User struct {
	bun.BaseModel         `bun:"table:users,alias:usr"`
	ID                    uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role                  UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	Username              string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email                 string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash          string     `bun:"password_hash" json:"-"`
	RefreshToken          string     `bun:"refresh_token,nullzero" json:"-"`
	RefreshTokenExpiresAt *time.Time `bun:"refresh_token_expires_at,nullzero" json:"-"`
	Revision              int64      `bun:"revision,notnull,default:0" json:"revision,omitempty"`
	CreatedAt             *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt             *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt             *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// SetRefreshToken stores a new token in the slot, superseding any prior one
func (u *User) SetRefreshToken(token string, expiresAt time.Time) *User {
	u.RefreshToken = token
	u.RefreshTokenExpiresAt = &expiresAt
	return u
}

// ClearRefreshToken empties the slot, both fields together
func (u *User) ClearRefreshToken() *User {
	u.RefreshToken = ""
	u.RefreshTokenExpiresAt = nil
	return u
}

// HasRefreshToken reports whether the slot is occupied
func (u *User) HasRefreshToken() bool {
	return u.RefreshToken != "" && u.RefreshTokenExpiresAt != nil
}

// RefreshTokenExpired reports whether the stored expiration is in the past.
// An empty slot counts as expired.
func (u *User) RefreshTokenExpired(now time.Time) bool {
	if u.RefreshTokenExpiresAt == nil {
		return true
	}
	return u.RefreshTokenExpiresAt.Before(now)
}

// Product is a catalog entry
type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Quantity      int        `bun:"quantity,notnull" json:"quantity"`
	PricePerUnit  float64    `bun:"price_per_unit,notnull" json:"price_per_unit"`
	CreatedByID   *uuid.UUID `bun:"created_by_id,nullzero,type:uuid" json:"created_by_id,omitempty"`
	UpdatedByID   *uuid.UUID `bun:"updated_by_id,nullzero,type:uuid" json:"updated_by_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// AuditLog captures a single entity mutation as a field level diff
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:adt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	EntityType    string     `bun:"entity_type,notnull" json:"entity_type,omitempty"`
	EntityID      string     `bun:"entity_id,notnull" json:"entity_id,omitempty"`
	Action        string     `bun:"action,notnull" json:"action,omitempty"`
	Changes       string     `bun:"changes" json:"changes,omitempty"`
	ActorID       string     `bun:"actor_id" json:"actor_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
