package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the kind of account
type UserRole = string

const (
	// RolePrivatePerson is an individual account
	RolePrivatePerson UserRole = "private_person"
	// RoleLegalPerson is a company account enriched from the registry
	RoleLegalPerson UserRole = "legal_person"
)

// User is the user model
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role           UserRole   `bun:"user_role,notnull" json:"role,omitempty"`
	FirstName      string     `bun:"first_name" json:"first_name,omitempty"`
	LastName       string     `bun:"last_name" json:"last_name,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone          string     `bun:"phone_number" json:"phone,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	AvatarLink     string     `bun:"avatar_link" json:"avatar_link,omitempty"`
	EmailVerified  bool       `bun:"is_verified" json:"is_verified"`
	CompanyName    string     `bun:"company_name" json:"company_name,omitempty"`
	CompanyTaxID   string     `bun:"company_tax_id" json:"company_tax_id,omitempty"`
	CompanyHead    string     `bun:"company_head" json:"company_head,omitempty"`
	CompanyAddress string     `bun:"company_address" json:"company_address,omitempty"`
	BankDetails    string     `bun:"bank_details" json:"bank_details,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// FullName joins the name parts for email salutations.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// SecureCode maps a one-time 6-digit code to a user with an absolute
// expiry. Rows are removed on redemption, never by a background purge.
type SecureCode struct {
	bun.BaseModel `bun:"table:secure_codes,alias:scode"`
	Code          string     `bun:"code,pk" json:"code"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id"`
	ExpiresAt     time.Time  `bun:"expires_at,notnull" json:"expires_at"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Expired reports whether the code is past its expiry at the given time.
func (c *SecureCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Project is the project model, always scoped to its owner.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:prj"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerID       uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`
	Name          string     `bun:"name,notnull,unique" json:"name,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}
