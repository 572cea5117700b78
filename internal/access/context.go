package access

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind tags which credential scheme produced a Context.
type Kind string

const (
	// KindIdentity is an authenticated instructor (signed token).
	KindIdentity Kind = "identity"
	// KindCapability is an anonymous patient holding a complex access token.
	KindCapability Kind = "capability"
)

const ctxKey = "access_ctx"

// Context is the single authorization context resolved per request. Exactly
// one of the two schemes applies: identity contexts carry the instructor id
// and role, capability contexts carry the one complex the token is bound to.
type Context struct {
	Kind         Kind
	InstructorID uuid.UUID
	Role         string
	ComplexID    uuid.UUID
}

// GetContext extracts the resolved authorization context from Fiber locals.
func GetContext(c *fiber.Ctx) (*Context, bool) {
	ctx, ok := c.Locals(ctxKey).(*Context)
	return ctx, ok && ctx != nil
}

// SetContext installs the authorization context for downstream handlers.
func SetContext(c *fiber.Ctx, ctx *Context) {
	c.Locals(ctxKey, ctx)
}

// CanAccessComplex reports whether this context may touch the given complex.
// Capability contexts are bound to exactly one complex; a token for complex A
// replayed against complex B is rejected here. Identity contexts pass — the
// ledger enforces ownership against storage.
func (x *Context) CanAccessComplex(complexID uuid.UUID) bool {
	switch x.Kind {
	case KindCapability:
		return x.ComplexID == complexID
	case KindIdentity:
		return true
	}
	return false
}

func (x *Context) IsInstructor() bool {
	return x.Kind == KindIdentity
}

func (x *Context) IsAdmin() bool {
	return x.Kind == KindIdentity && x.Role == "admin"
}

// OwnedBy returns a GORM scope that filters rows to one instructor's data.
func OwnedBy(instructorID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("instructor_id = ?", instructorID)
	}
}
